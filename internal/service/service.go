package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contact-list/internal/export"
	"gitlab.com/dirk.krummacker/contact-list/internal/extract"
	internal "gitlab.com/dirk.krummacker/contact-list/internal/model"
	"gitlab.com/dirk.krummacker/contact-list/internal/search"
	"gitlab.com/dirk.krummacker/contact-list/internal/store"
	"gitlab.com/dirk.krummacker/contact-list/pkg/model"
	"go.uber.org/zap"
)

// Service exposes the contact store, the search, the SQL export and the contact extraction as a
// REST API.
type Service struct {
	store    *store.Store
	runner   *extract.Runner
	exporter export.Exporter
	logger   *zap.Logger
}

// New creates the service. The store must already be loaded.
func New(s *store.Store, runner *extract.Runner, exporter export.Exporter, logger *zap.Logger) *Service {
	return &Service{store: s, runner: runner, exporter: exporter, logger: logger}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func (s *Service) SetupHttpRouter(requestLogging bool) *gin.Engine {
	var router *gin.Engine
	if requestLogging {
		router = gin.Default()
	} else {
		s.logger.Info("turning off HTTP request logging")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.GET("/health", s.health)
	router.GET("/contacts", s.findContacts)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/export", s.exportContacts)
	router.POST("/contacts/extract", s.extractContact)
	router.DELETE("/contacts/:id", s.deleteContactByID)
	return router
}

// health responds with the number of contacts. It is used to find out whether the service is up.
//
// Example REST API call:
//
//	> curl http://localhost:8080/health
func (s *Service) health(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"message": "ok", "contacts": s.store.Len()})
}

// findContacts responds with the list of contacts as JSON, newest first.
//
// The URL parameter 'search' restricts the list to contacts whose name contains the search term,
// ignoring case, or whose phone number contains it. Without the parameter, all contacts are
// returned. An empty list is a valid result.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?search=erika"
//	> curl "http://localhost:8080/contacts?search=0815"
func (s *Service) findContacts(c *gin.Context) {
	found := search.Filter(s.store.All(), c.Query("search"))
	contacts := make([]model.Contact, 0, len(found))
	for _, contact := range found {
		contacts = append(contacts, toAPI(contact))
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// createContact adds the contact specified in the request's JSON to the front of the list. It
// responds with the full contact data including the newly assigned id.
//
// Name and phone are required. Surrounding whitespace is removed, and the name must not be longer
// than 20 characters, the phone not longer than 15 characters.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "phone": "+49 0815 4711"}'
func (s *Service) createContact(c *gin.Context) {
	var newContact model.NewContact
	if err := c.BindJSON(&newContact); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	contact, err := s.store.Add(c.Request.Context(), newContact.Name, newContact.Phone)
	var validationErr *store.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
		return
	}
	if err != nil {
		s.logger.Error("contact created but not saved", zap.String("id", contact.Id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "contact created but could not be saved",
			"contact": toAPI(contact),
		})
		return
	}
	c.IndentedJSON(http.StatusCreated, toAPI(contact))
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request
// URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/0b6f7c1e-4c57-4bfb-9a8f-2a1c3e0d9f10 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	id := c.Param("id")
	deleted, err := s.store.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("contact deleted but not saved", zap.String("id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "contact deleted but could not be saved"})
		return
	}
	if deleted {
		c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
	} else {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	}
}

// exportContacts responds with a SQL script that creates the contacts table and inserts all
// contacts. The browser offers the script as a download.
//
// Example REST API call:
//
//	> curl --remote-name --remote-header-name http://localhost:8080/contacts/export
func (s *Service) exportContacts(c *gin.Context) {
	script := s.exporter.Generate(s.store.All())
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(script)))
	c.Data(http.StatusOK, export.ContentType+"; charset=utf-8", []byte(script))
}

// extractContact asks the extraction service for a name and a phone number in the free text of the
// request. It responds with the extracted values, which can be posted to /contacts as they are.
// Nothing is added to the list.
//
// Only one extraction runs at a time. While it is running, further requests are answered with the
// CONFLICT status code.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/extract --request "POST" --header "Content-Type: application/json" --data '{"text": "Call Erika at +49 0815 4711"}'
func (s *Service) extractContact(c *gin.Context) {
	var request model.ExtractRequest
	if err := c.BindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	result, err := s.runner.Extract(c.Request.Context(), request.Text)
	switch {
	case errors.Is(err, extract.ErrEmptyInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "text must not be empty"})
		return
	case errors.Is(err, extract.ErrBusy):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "extraction already in progress"})
		return
	}
	switch result.Outcome {
	case extract.Extracted:
		c.IndentedJSON(http.StatusOK, model.NewContact{Name: result.Name, Phone: result.Phone})
	case extract.NotFound:
		c.IndentedJSON(http.StatusUnprocessableEntity, gin.H{"message": "could not extract a contact"})
	default:
		c.IndentedJSON(http.StatusBadGateway, gin.H{"message": "could not extract a contact"})
	}
}

// toAPI converts a stored contact into its REST API representation.
func toAPI(c internal.Contact) model.Contact {
	return model.Contact{Id: c.Id, Name: c.Name, Phone: c.Phone, CreatedAt: c.CreatedAt}
}
