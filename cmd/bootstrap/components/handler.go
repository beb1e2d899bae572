package components

import (
	"carhive/internal/handler"
	"carhive/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCarHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewReviewHandler,
		api.NewAdminCarHandler,
		api.NewAdminDriverHandler,
		api.NewAdminInsuranceHandler,
		api.NewAdminDiscountHandler,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	car *api.CarHandler,
	booking *api.BookingHandler,
	payment *api.PaymentHandler,
	review *api.ReviewHandler,
	adminCar *api.AdminCarHandler,
	driver *api.AdminDriverHandler,
	insurance *api.AdminInsuranceHandler,
	discount *api.AdminDiscountHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:      auth,
		Car:       car,
		Booking:   booking,
		Payment:   payment,
		Review:    review,
		AdminCar:  adminCar,
		Driver:    driver,
		Insurance: insurance,
		Discount:  discount,
	}
}
