package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/JumpPrivacy/seta/db"
	"github.com/gorilla/mux"
)

type Handler struct {
	tx        db.Store
	adds      chan<- AddRequest
	witnesses chan<- WitnessRequest
}

// apiError carries a status code alongside the message shown to the client.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func errBadRequest(format string, args ...interface{}) error {
	return &apiError{http.StatusBadRequest, fmt.Sprintf(format, args...)}
}

// HandleAPI wraps an API endpoint with uniform JSON encoding, error
// reporting, and request metrics.
func HandleAPI(inner func(req *http.Request) (interface{}, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		res, err := inner(req)

		status := http.StatusOK
		if err != nil {
			status = http.StatusInternalServerError
			if apiErr, ok := err.(*apiError); ok {
				status = apiErr.status
			} else {
				log.Printf("request to %v failed: %v", req.URL.Path, err)
			}
			res = map[string]string{"error": err.Error()}
		}
		requestCtr.WithLabelValues(req.URL.Path, fmt.Sprint(status)).Inc()

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		if err := json.NewEncoder(rw).Encode(res); err != nil {
			log.Println(err)
		}
	}
}

type ParamsResponse struct {
	Generator string `json:"generator"`
	Modulus   string `json:"modulus"`
	State     string `json:"state"`
}

// Params returns the accumulator's public parameters and current state.
func (h *Handler) Params(req *http.Request) (interface{}, error) {
	generator, err := h.tx.Generator()
	if err != nil {
		return nil, err
	}
	modulus, err := h.tx.Modulus()
	if err != nil {
		return nil, err
	}
	state, err := h.tx.State()
	if err != nil {
		return nil, err
	}
	return ParamsResponse{
		Generator: fmt.Sprintf("%x", generator),
		Modulus:   fmt.Sprintf("%x", modulus),
		State:     fmt.Sprintf("%x", state),
	}, nil
}

type AddResult struct {
	State string `json:"state"`
}

type WitnessResult struct {
	Member  bool   `json:"member"`
	Witness string `json:"witness,omitempty"`
	Nonce   string `json:"nonce,omitempty"`
	State   string `json:"state,omitempty"`
}

// Member adds a value to the accumulator (POST) or produces a membership
// witness for it (GET). The value is given hex-encoded in the URL.
func (h *Handler) Member(req *http.Request) (interface{}, error) {
	value, err := hex.DecodeString(mux.Vars(req)["value"])
	if err != nil {
		return nil, errBadRequest("failed to parse value: %v", err)
	}

	switch req.Method {
	case http.MethodPost:
		resp := make(chan AddResponse, 1)
		h.adds <- AddRequest{Value: value, Resp: resp}
		res := <-resp
		if res.Err != nil {
			return nil, res.Err
		}
		return AddResult{State: fmt.Sprintf("%x", res.State)}, nil

	case http.MethodGet:
		resp := make(chan WitnessResponse, 1)
		h.witnesses <- WitnessRequest{Value: value, Resp: resp}
		res := <-resp
		if res.Err != nil {
			return nil, res.Err
		} else if res.Witness == nil {
			return WitnessResult{Member: false}, nil
		}
		return WitnessResult{
			Member:  true,
			Witness: fmt.Sprintf("%x", res.Witness.Value),
			Nonce:   fmt.Sprintf("%x", res.Witness.Nonce),
			State:   fmt.Sprintf("%x", res.State),
		}, nil

	default:
		return nil, errBadRequest("method not supported: %v", req.Method)
	}
}
