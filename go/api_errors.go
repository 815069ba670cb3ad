package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-storefront-api/internal/shared/errors"
)

var responder = apierrors.NewResponder("", catalogErrorMapper, orderErrorMapper)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError sends a problem with the given status for transport-level failures.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondServiceError maps application errors to problem details.
func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func catalogErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "catalogEntry"), true
	case errors.Is(err, catalogapp.ErrDuplicateEntry):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	var terminal *domain.TerminalStateError
	if errors.As(err, &terminal) {
		return apierrors.ErrTerminalState.
			WithDetail(err.Error()).
			WithExtension("orderId", terminal.OrderID).
			WithExtension("status", terminal.Status.String()), true
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return apierrors.NewValidationProblem(err.Error(), map[string]string{validation.Field: validation.Reason}), true
	}
	var notFound *orderports.NotFoundError
	if errors.As(err, &notFound) {
		return apierrors.NewNotFoundProblem("order", notFound.Value), true
	}
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
