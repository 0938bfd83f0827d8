package weather

import (
	"errors"
	"fmt"
)

// UnexpectedErrorMessage is shown for errors outside the known taxonomy.
const UnexpectedErrorMessage = "An unexpected error occurred"

type LocationErrorKind int

const (
	LocationPermissionDenied LocationErrorKind = iota
	LocationUnavailable
	LocationUnknown
)

// LocationError is returned by a LocationSource.
type LocationError struct {
	Kind  LocationErrorKind
	Cause error
}

func (e *LocationError) Error() string {
	switch e.Kind {
	case LocationPermissionDenied:
		return "Location permission denied. Please enable location access in Settings."
	case LocationUnavailable:
		return "Could not determine your location. Please try again."
	default:
		if e.Cause != nil {
			return fmt.Sprintf("Location error: %v", e.Cause)
		}
		return "Location error"
	}
}

func (e *LocationError) Unwrap() error { return e.Cause }

type NetworkErrorKind int

const (
	NetworkInvalidInput NetworkErrorKind = iota
	NetworkNoData
	NetworkDecodingError
	NetworkTransportError
	NetworkServerError
)

// NetworkError is returned by a WeatherClient.
type NetworkError struct {
	Kind       NetworkErrorKind
	StatusCode int
	Cause      error
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case NetworkInvalidInput:
		return "Invalid request"
	case NetworkNoData:
		return "No data received"
	case NetworkDecodingError:
		return fmt.Sprintf("Failed to decode data: %v", e.Cause)
	case NetworkTransportError:
		return fmt.Sprintf("Network error: %v", e.Cause)
	case NetworkServerError:
		return fmt.Sprintf("Server error with status code: %d", e.StatusCode)
	default:
		return "Network error"
	}
}

func (e *NetworkError) Unwrap() error { return e.Cause }

type StorageErrorKind int

const (
	StorageEncodingError StorageErrorKind = iota
	StorageDecodingError
	StorageWriteError
	StorageReadError
)

// StorageError is returned by a HistoryStore.
type StorageError struct {
	Kind  StorageErrorKind
	Cause error
}

func (e *StorageError) Error() string {
	var msg string
	switch e.Kind {
	case StorageEncodingError:
		msg = "failed to encode data"
	case StorageDecodingError:
		msg = "failed to decode data"
	case StorageWriteError:
		msg = "failed to write data"
	default:
		msg = "failed to read data"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Cause }

// FailureMessage returns the text an orchestrator puts into Failed(message).
func FailureMessage(err error) string {
	var locErr *LocationError
	if errors.As(err, &locErr) {
		return locErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	return UnexpectedErrorMessage
}

// IsPermissionDenied reports whether err is a location permission failure.
func IsPermissionDenied(err error) bool {
	var locErr *LocationError
	return errors.As(err, &locErr) && locErr.Kind == LocationPermissionDenied
}
