package verify

import (
	"crypto/rand"
	"math/big"

	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/swimtime"
)

const randomFloatDivisor = 1_000_000

// Reference times are roughly elite short course yards; generated times are
// slower by up to slowdownRange.
const (
	slowdownRange   = 0.6
	longCourseExtra = 1.1
	altitudeOdds    = 0.1
)

type eventProfile struct {
	event     string
	reference float64
	courses   []course.Course
}

var (
	anyCourse   = []course.Course{course.SCY, course.SCM, course.LCM}
	yardsOnly   = []course.Course{course.SCY}
	metersOnly  = []course.Course{course.SCM, course.LCM}
	shortCourse = []course.Course{course.SCY, course.SCM}
)

var profiles = []eventProfile{
	{"50_free", 19.5, anyCourse},
	{"100_free", 42.5, anyCourse},
	{"200_free", 93.0, anyCourse},
	{"400_free", 225.0, metersOnly},
	{"500_free", 252.0, yardsOnly},
	{"800_free", 470.0, metersOnly},
	{"1000_free", 530.0, yardsOnly},
	{"1500_free", 890.0, metersOnly},
	{"1650_free", 880.0, yardsOnly},
	{"50_back", 21.5, anyCourse},
	{"100_back", 45.0, anyCourse},
	{"200_back", 98.0, anyCourse},
	{"50_breast", 23.5, anyCourse},
	{"100_breast", 51.0, anyCourse},
	{"200_breast", 110.0, anyCourse},
	{"50_fly", 20.5, anyCourse},
	{"100_fly", 44.0, anyCourse},
	{"200_fly", 98.0, anyCourse},
	{"100_im", 46.0, shortCourse},
	{"200_im", 100.0, anyCourse},
	{"400_im", 235.0, metersOnly},
}

var malformed = []string{"abc", "1:2:3", "-5", "", "1:75.00x"}

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	i, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(i.Int64())
}

// generateSamples creates n realistic conversion requests. A share of
// invalidRatio is malformed on purpose.
func generateSamples(n int, invalidRatio float64) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = generateSample()
		if invalidRatio > 0 && getRandomFloat() < invalidRatio {
			samples[i].Time = malformed[randomIndex(len(malformed))]
		}
	}
	return samples
}

func generateSample() Sample {
	p := profiles[randomIndex(len(profiles))]
	from := p.courses[randomIndex(len(p.courses))]
	to := anyCourse[randomIndex(len(anyCourse))]

	seconds := p.reference * (1 + getRandomFloat()*slowdownRange)
	if from == course.LCM {
		seconds *= longCourseExtra
	}

	return Sample{
		Time:     swimtime.Format(swimtime.RoundHundredths(seconds)),
		Event:    p.event,
		From:     string(from),
		To:       string(to),
		Altitude: getRandomFloat() < altitudeOdds,
	}
}
