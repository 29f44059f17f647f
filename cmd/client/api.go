package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/dirk.krummacker/contact-list/pkg/model"
)

// apiClient sends requests to the REST API of the contacts service.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: time.Minute}}
}

// apiError is a response with an unexpected status code.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service answered %d", e.Status)
	}
	return fmt.Sprintf("service answered %d: %s", e.Status, e.Message)
}

// sendRequest executes a request and returns the response body and the duration of the call in
// nanoseconds. Responses with a status other than wantStatus are returned as *apiError.
func (a *apiClient) sendRequest(method string, path string, body any, wantStatus int) ([]byte, int64, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("could not marshal JSON: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.baseURL+path, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("could not create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := a.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read response body: %w", err)
	}
	after := time.Now().UnixNano()
	if res.StatusCode != wantStatus {
		var message model.Message
		json.Unmarshal(resBody, &message)
		return resBody, after - before, &apiError{Status: res.StatusCode, Message: message.Message}
	}
	return resBody, after - before, nil
}

// list returns the contacts matching term, newest first.
func (a *apiClient) list(term string) ([]model.Contact, error) {
	path := "/contacts"
	if term != "" {
		path += "?search=" + url.QueryEscape(term)
	}
	body, _, err := a.sendRequest(http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var contacts []model.Contact
	if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return contacts, nil
}

// add creates a contact.
func (a *apiClient) add(name string, phone string) (model.Contact, int64, error) {
	body, duration, err := a.sendRequest(http.MethodPost, "/contacts", model.NewContact{Name: name, Phone: phone}, http.StatusCreated)
	if err != nil {
		return model.Contact{}, duration, err
	}
	var contact model.Contact
	if err := json.Unmarshal(body, &contact); err != nil {
		return model.Contact{}, duration, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return contact, duration, nil
}

// delete removes a contact.
func (a *apiClient) delete(id string) (int64, error) {
	_, duration, err := a.sendRequest(http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, http.StatusOK)
	return duration, err
}

// export downloads the SQL export.
func (a *apiClient) export() ([]byte, error) {
	body, _, err := a.sendRequest(http.MethodGet, "/contacts/export", nil, http.StatusOK)
	return body, err
}

// extract asks the service to find a contact in text.
func (a *apiClient) extract(text string) (model.NewContact, error) {
	body, _, err := a.sendRequest(http.MethodPost, "/contacts/extract", model.ExtractRequest{Text: text}, http.StatusOK)
	if err != nil {
		return model.NewContact{}, err
	}
	var extracted model.NewContact
	if err := json.Unmarshal(body, &extracted); err != nil {
		return model.NewContact{}, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return extracted, nil
}
