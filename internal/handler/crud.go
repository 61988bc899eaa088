package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	patientsvc "github.com/schoolcare/infirmary-api/internal/service/patient"
)

// FamilyConfig describes how one entity family is exposed over HTTP.
type FamilyConfig struct {
	// Path is the collection segment, e.g. "students".
	Path string
	// KeyQuery names the query parameter holding the unique business
	// key, e.g. "registry". Empty when the family has none.
	KeyQuery string
	// ByEmail enables the ?email= lookup on the collection endpoint.
	ByEmail bool
}

// RegisterFamily wires the shared endpoint set for one entity family.
// The same five handlers serve every family; only the types differ.
// P is the patch type bound on PATCH requests.
func RegisterFamily[T model.Entity, P any](rg *gin.RouterGroup, cfg FamilyConfig, svc *patientsvc.Service[T]) {
	g := rg.Group("/" + cfg.Path)
	{
		g.POST("", createAll(svc))
		g.GET("", search(svc, cfg))
		g.GET("/:id", getByID(svc))
		g.PATCH("/:id", updateByKey[T, P](svc))
		g.DELETE("/:id", deleteByKey(svc))
	}
}

func createAll[T model.Entity](svc *patientsvc.Service[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var recs []T
		if err := c.ShouldBindJSON(&recs); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
			return
		}
		created, err := svc.CreateAll(c.Request.Context(), recs)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, NewSuccessResponse(created))
	}
}

func search[T model.Entity](svc *patientsvc.Service[T], cfg FamilyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.ByEmail {
			if email := c.Query("email"); email != "" {
				rec, err := svc.FindByEmail(c.Request.Context(), email, Related(c)...)
				if err != nil {
					RespondError(c, err)
					return
				}
				// rec is nil when nobody has that email; the empty
				// envelope is the expected answer, not a 404.
				c.JSON(http.StatusOK, NewSuccessResponse(rec))
				return
			}
		}

		q := repository.Lookup{
			Name:    c.Query("name"),
			Related: Related(c),
		}
		if cfg.KeyQuery != "" {
			q.Key = c.Query(cfg.KeyQuery)
		}
		recs, err := svc.Search(c.Request.Context(), q)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewSuccessResponse(recs))
	}
}

func getByID[T model.Entity](svc *patientsvc.Service[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.GetByID(c.Request.Context(), c.Param("id"), Related(c)...)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewSuccessResponse(rec))
	}
}

func updateByKey[T model.Entity, P any](svc *patientsvc.Service[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch P
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
			return
		}
		rec, err := svc.UpdateByKey(c.Request.Context(), c.Param("id"), &patch)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewSuccessResponse(rec))
	}
}

func deleteByKey[T model.Entity](svc *patientsvc.Service[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteByKey(c.Request.Context(), c.Param("id")); err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, &Response{
			Status:  "success",
			Message: "deleted successfully",
		})
	}
}

// Related parses the comma separated ?related= parameter.
func Related(c *gin.Context) []string {
	raw := c.Query("related")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
