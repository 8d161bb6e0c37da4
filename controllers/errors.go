package controllers

import (
	"errors"
	"log"
	"net/http"

	"boardshop/apperr"
	"boardshop/utils"
)

// respondError maps a tagged application error to its HTTP status. All
// failures pass through here so the kind switch stays in one place.
func respondError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Printf("unclassified error: %v", err)
		utils.WriteFail(w, http.StatusInternalServerError, "unknown error")
		return
	}

	switch ae.Kind {
	case apperr.ValidationFailed, apperr.InvalidReference, apperr.ProductNotSellable, apperr.DisallowedField:
		utils.WriteFail(w, http.StatusBadRequest, ae.Message)
	case apperr.NotFound:
		utils.WriteFail(w, http.StatusNotFound, ae.Message)
	case apperr.DuplicateKey:
		utils.WriteFail(w, http.StatusConflict, ae.Message)
	case apperr.Unknown:
		log.Printf("internal error: %v", errors.Unwrap(ae))
		utils.WriteFail(w, http.StatusInternalServerError, "unknown error")
	default:
		utils.WriteFail(w, http.StatusInternalServerError, "unknown error")
	}
}
