package standards_test

import (
	"testing"

	"github.com/okian/swimconv/internal/domain/standards"
	"github.com/smartystreets/goconvey/convey"
)

func TestLookup(t *testing.T) {
	convey.Convey("Given the standards table", t, func() {
		convey.Convey("When looking up a known event", func() {
			got := standards.Lookup("50_free", "men")

			convey.Convey("Then every tier is returned", func() {
				convey.So(got, convey.ShouldResemble, map[string]string{
					"d1_a": "19.05",
					"d1_b": "19.85",
					"d2":   "20.29",
					"d3_a": "20.45",
					"d3_b": "21.19",
				})
			})

			convey.Convey("And mutating the result does not change the table", func() {
				got["d1_a"] = "1.00"
				convey.So(standards.Lookup("50_free", "men")["d1_a"], convey.ShouldEqual, "19.05")
			})
		})

		convey.Convey("When the event is unknown", func() {
			got := standards.Lookup("9999_free", "men")
			convey.So(got, convey.ShouldNotBeNil)
			convey.So(got, convey.ShouldBeEmpty)
		})

		convey.Convey("When the gender is unknown", func() {
			convey.So(standards.Lookup("50_free", "mixed"), convey.ShouldBeEmpty)
		})

		convey.Convey("When the keys differ only in case", func() {
			convey.So(standards.Lookup("50_FREE", "men"), convey.ShouldBeEmpty)
			convey.So(standards.Lookup("50_free", "Men"), convey.ShouldBeEmpty)
		})

		convey.Convey("When listing the table", func() {
			convey.So(standards.Tiers(), convey.ShouldResemble, []string{"d1_a", "d1_b", "d2", "d3_a", "d3_b"})
			convey.So(standards.Genders(), convey.ShouldResemble, []string{"men", "women"})
			convey.So(standards.Events("men"), convey.ShouldHaveLength, 2)
			convey.So(standards.Events("women"), convey.ShouldContain, "50_free")
			convey.So(standards.Events("other"), convey.ShouldBeEmpty)
		})
	})
}

func TestQualify(t *testing.T) {
	convey.Convey("Given SCY times against the men's 100 free", t, func() {
		convey.Convey("When the time beats every cut", func() {
			convey.So(standards.Qualify(41.90, "100_free", "men"), convey.ShouldResemble, standards.Tiers())
		})

		convey.Convey("When the time equals a cut", func() {
			convey.So(standards.Qualify(44.69, "100_free", "men"), convey.ShouldResemble, []string{"d2", "d3_a", "d3_b"})
		})

		convey.Convey("When the time misses every cut", func() {
			convey.So(standards.Qualify(50.00, "100_free", "men"), convey.ShouldBeEmpty)
		})

		convey.Convey("When the event is unknown", func() {
			convey.So(standards.Qualify(10.00, "200_fly", "men"), convey.ShouldBeEmpty)
		})
	})
}
