package handler

import (
	"net/http"

	"github.com/vfg2006/adops-finance-api/internal/domain"
	"github.com/vfg2006/adops-finance-api/internal/usecases/project"
	"github.com/vfg2006/adops-finance-api/pkg/apiErrors"
	"github.com/vfg2006/adops-finance-api/pkg/response"
)

func ListProjects(service project.ProjectService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		q := newQueryParser(r)
		filter := domain.ProjectFilter{
			Name: q.String("name"),
			Page: q.Page(),
		}
		if status := q.String("status"); status != nil {
			value := domain.ProjectStatus(*status)
			if !value.IsValid() {
				apiErrors.WriteError(w, r, apiErrors.InvalidParam(project.MessageInvalidStatus))
				return
			}
			filter.Status = &value
		}
		if err := q.Err(); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		projects, total, err := service.ListProjects(r.Context(), caller, filter)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		writeList(w, r, projects, filter.Page, total)
	})
}

func GetProject(service project.ProjectService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		p, err := service.GetProject(r.Context(), caller, id)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, p)
	})
}

func CreateProject(service project.ProjectService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.CreateProjectRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		p, err := service.CreateProject(r.Context(), caller, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusCreated, p)
	})
}

func UpdateProject(service project.ProjectService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		var req domain.UpdateProjectRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		p, err := service.UpdateProject(r.Context(), caller, id, req)
		if err != nil {
			apiErrors.WriteError(w, r, err)
			return
		}

		response.JSON(w, r, http.StatusOK, p)
	})
}
