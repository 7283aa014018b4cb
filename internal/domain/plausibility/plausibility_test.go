package plausibility_test

import (
	"math"
	"testing"

	"github.com/okian/swimconv/internal/domain/plausibility"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsPlausible(t *testing.T) {
	Convey("Given the 50 free window", t, func() {
		So(plausibility.IsPlausible(12.0, "50_free"), ShouldBeFalse)
		So(plausibility.IsPlausible(25.0, "50_free"), ShouldBeTrue)

		Convey("Then the bounds are inclusive", func() {
			So(plausibility.IsPlausible(15.0, "50_free"), ShouldBeTrue)
			So(plausibility.IsPlausible(60.0, "50_free"), ShouldBeTrue)
			So(plausibility.IsPlausible(60.01, "50_free"), ShouldBeFalse)
		})
	})

	Convey("Given other distances", t, func() {
		So(plausibility.IsPlausible(95.0, "200_im"), ShouldBeTrue)
		So(plausibility.IsPlausible(40.0, "200_im"), ShouldBeFalse)
		So(plausibility.IsPlausible(900.0, "1650_free"), ShouldBeTrue)
		So(plausibility.IsPlausible(2600.0, "1650_free"), ShouldBeFalse)

		Convey("Then only the leading digit run is the distance", func() {
			So(plausibility.IsPlausible(25.0, "50_free2"), ShouldBeTrue)
			So(plausibility.IsPlausible(12.0, "50free"), ShouldBeFalse)
		})
	})

	Convey("Given unknown distances", t, func() {
		Convey("Then the validator is permissive", func() {
			So(plausibility.IsPlausible(1.0, "25_free"), ShouldBeTrue)
			So(plausibility.IsPlausible(1.0, "free"), ShouldBeTrue)
			So(plausibility.IsPlausible(1.0, ""), ShouldBeTrue)
		})
	})

	Convey("Given a NaN time for a known distance", t, func() {
		So(plausibility.IsPlausible(math.NaN(), "100_back"), ShouldBeFalse)
	})
}

func TestWindowFor(t *testing.T) {
	Convey("Given an event with a window", t, func() {
		w, ok := plausibility.WindowFor("400_im")
		So(ok, ShouldBeTrue)
		So(w, ShouldResemble, plausibility.Window{Min: 180, Max: 600})
	})

	Convey("Given an event without a window", t, func() {
		_, ok := plausibility.WindowFor("75_fly")
		So(ok, ShouldBeFalse)
	})
}
