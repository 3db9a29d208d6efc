package confirm_booking

import "fmt"

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	hasID := req.BookingID > 0
	hasSession := req.CheckoutSessionID != ""
	if hasID == hasSession {
		return fmt.Errorf("%w: exactly one of booking id or checkout session id is required", ErrInvalidInput)
	}
	return nil
}
