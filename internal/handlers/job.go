package handlers

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const jobsPath = "/projects/jobs"

type JobHandler struct {
	jobs      *services.JobService
	customers *services.CustomerService
	employees *services.EmployeeService
}

func NewJobHandler(jobs *services.JobService, customers *services.CustomerService, employees *services.EmployeeService) *JobHandler {
	return &JobHandler{jobs: jobs, customers: customers, employees: employees}
}

func jobPath(id uint) string { return jobsPath + "/" + itoa(id) }

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	lf, page := listFilter(r)
	q := r.URL.Query()
	v := make(validation.Violations)
	f := services.JobFilter{
		ListFilter:   lf,
		Status:       models.JobStatus(q.Get("status")),
		TechnicianID: formUint(q, "technician_id", v),
		CustomerID:   formUint(q, "customer_id", v),
	}
	list, total, err := h.jobs.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, lf))
		return
	}
	render(w, r, http.StatusOK, "jobs/list.html", map[string]any{
		"Jobs":     list,
		"Statuses": models.JobStatuses(),
		"Status":   f.Status,
		"Page":     page,
		"Total":    total,
	})
}

func (h *JobHandler) New(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := make(validation.Violations)
	in := services.JobInput{
		CustomerID:  formUint(q, "customer_id", v),
		QuotationID: formUintPtr(q, "quotation_id", v),
		Kind:        models.JobKindMeasurement,
	}
	h.form(w, r, http.StatusOK, 0, in, nil)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJob(r)
	if err == nil {
		job, cerr := h.jobs.Create(r.Context(), in)
		if cerr == nil {
			done(w, r, http.StatusCreated, job, jobPath(job.ID), "saved")
			return
		}
		err = cerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.form(w, r, http.StatusUnprocessableEntity, 0, in, v)
		return
	}
	fail(w, r, err)
}

func (h *JobHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, job)
		return
	}
	next, hasNext := job.Status.Next()
	render(w, r, http.StatusOK, "jobs/view.html", map[string]any{
		"Job":       job,
		"Statuses":  models.JobStatuses(),
		"Next":      next,
		"HasNext":   hasNext,
		"CanCancel": job.Status.CanCancel(),
	})
}

func (h *JobHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.form(w, r, http.StatusOK, id, services.JobInput{
		CustomerID:   job.CustomerID,
		QuotationID:  job.QuotationID,
		Kind:         job.Kind,
		ScheduledAt:  job.ScheduledAt,
		Address:      job.Address,
		TechnicianID: job.TechnicianID,
		Notes:        job.Notes,
	}, nil)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	in, err := decodeJob(r)
	if err == nil {
		job, uerr := h.jobs.Update(r.Context(), id, in)
		if uerr == nil {
			done(w, r, http.StatusOK, job, jobPath(id), "saved")
			return
		}
		err = uerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.form(w, r, http.StatusUnprocessableEntity, id, in, v)
		return
	}
	fail(w, r, err)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.jobs.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]uint{"deleted": id}, jobsPath, "deleted")
}

func (h *JobHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	s, err := decodeStatus(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.jobs.SetStatus(r.Context(), id, models.JobStatus(s)); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": s}, jobPath(id), "saved")
}

// Advance moves the job to its next workflow step.
func (h *JobHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	next, err := h.jobs.Advance(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]models.JobStatus{"status": next}, jobPath(id), "saved")
}

func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.jobs.Cancel(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]models.JobStatus{"status": models.JobStatusCancelled}, jobPath(id), "saved")
}

func (h *JobHandler) form(w http.ResponseWriter, r *http.Request, status int, id uint, in services.JobInput, errs validation.Violations) {
	customers, _, err := h.customers.List(r.Context(), services.ListFilter{Limit: 200})
	if err != nil {
		fail(w, r, err)
		return
	}
	techs, err := h.employees.Technicians(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	action := jobsPath
	if id != 0 {
		action = jobPath(id)
	}
	render(w, r, status, "jobs/form.html", map[string]any{
		"ID":          id,
		"Job":         in,
		"Customers":   customers,
		"Technicians": techs,
		"Kinds":       []models.JobKind{models.JobKindMeasurement, models.JobKindInstallation},
		"Errors":      errs,
		"Action":      action,
	})
}

func decodeJob(r *http.Request) (services.JobInput, error) {
	var in services.JobInput
	err := decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.JobInput{
			CustomerID:   formUint(f, "customer_id", v),
			QuotationID:  formUintPtr(f, "quotation_id", v),
			Kind:         models.JobKind(formString(f, "kind")),
			ScheduledAt:  formTime(f, "scheduled_at", v),
			Address:      formString(f, "address"),
			TechnicianID: formUintPtr(f, "technician_id", v),
			Notes:        formString(f, "notes"),
		}
	})
	return in, err
}
