package api

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/session"
)

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("zone 9")

		Convey("WrapKind matches both the kind and the cause", func() {
			err := WrapKind("api.record", ErrBadRequest, cause)
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.record: bad request: zone 9")
		})

		Convey("NewKind and WrapKind without a cause are equivalent", func() {
			So(errors.Is(NewKind("api.clear", ErrPrecondition), ErrPrecondition), ShouldBeTrue)
			So(WrapKind("api.clear", ErrPrecondition, nil).Error(), ShouldEqual, NewKind("api.clear", ErrPrecondition).Error())
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given service errors", t, func() {
		Convey("A missing player is a validation error", func() {
			err := classify("api.record", fmt.Errorf("record: %w", session.ErrMissingPlayer))
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
			So(errors.Is(err, session.ErrMissingPlayer), ShouldBeTrue)
		})

		Convey("An unconfirmed clear is a precondition error", func() {
			err := classify("api.clear_kickouts", service.ErrConfirmationRequired)
			So(errors.Is(err, ErrPrecondition), ShouldBeTrue)
			So(errors.Is(err, ErrValidation), ShouldBeFalse)
		})

		Convey("A board that is not started is unavailable", func() {
			So(errors.Is(classify("api.state", service.ErrNotStarted), ErrUnavailable), ShouldBeTrue)
		})

		Convey("A persist failure stays internal and keeps its cause", func() {
			err := classify("api.record", service.ErrPersist)
			So(errors.Is(err, ErrInternal), ShouldBeTrue)
			So(errors.Is(err, service.ErrPersist), ShouldBeTrue)
		})
	})
}
