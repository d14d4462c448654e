// Package services implements the business logic for adoption requests, pets,
// and notifications on top of the document store and the denormalizing cache.
// This file centralizes service-level error values so they can be returned
// consistently and checked by handlers.
//
// Error messages are user-facing Spanish strings, matching the product copy:
// handlers surface them directly in the error envelope.
package services

import "errors"

// Adoption-request errors.
var (
	// ErrAdoptionsUnavailable is returned when a list operation fails against
	// the remote store. The relevant TTL watermark is left untouched so the
	// next call retries.
	ErrAdoptionsUnavailable = errors.New("no se pudieron cargar las solicitudes de adopción")

	// ErrAdoptionNotFound indicates the requested adoption request does not exist.
	ErrAdoptionNotFound = errors.New("solicitud de adopción no encontrada")

	// ErrDuplicateRequest is returned when a user already has an active
	// (pending or approved) request for the same pet.
	ErrDuplicateRequest = errors.New("ya tienes una solicitud activa para esta mascota")

	// ErrInvalidStatus is returned for a status outside the allowed set.
	ErrInvalidStatus = errors.New("estado de solicitud no válido")

	// ErrCreateFailed is returned when persisting a new request fails.
	ErrCreateFailed = errors.New("no se pudo crear la solicitud de adopción")

	// ErrUpdateFailed is returned when a status/notes update fails remotely.
	ErrUpdateFailed = errors.New("no se pudo actualizar la solicitud")

	// ErrDeleteFailed is returned when removing a request fails remotely.
	ErrDeleteFailed = errors.New("no se pudo eliminar la solicitud")

	// ErrConfirmFailed wraps a failed step of the confirm-and-verify saga.
	// Earlier steps are not rolled back; the whole sequence is retryable.
	ErrConfirmFailed = errors.New("no se pudo confirmar la adopción")
)

// Pet errors.
var (
	// ErrPetNotFound indicates the requested pet does not exist.
	ErrPetNotFound = errors.New("mascota no encontrada")

	// ErrPetInvalid is returned when a pet document fails validation.
	ErrPetInvalid = errors.New("datos de la mascota no válidos")
)
