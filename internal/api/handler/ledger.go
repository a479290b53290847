package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// displayIndex reads the {index} path variable
func displayIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		return 0, NewInvalidRequestError("index must be a non-negative integer")
	}
	return index, nil
}

// numberField is a required numeric field in a request body
type numberField struct {
	name  string
	value *float64
}

// missingField returns the error message for the first absent field, or ""
func missingField(fields ...numberField) string {
	for _, f := range fields {
		if f.value == nil {
			return f.name + " is required"
		}
	}
	return ""
}
