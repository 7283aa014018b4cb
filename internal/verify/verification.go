package verify

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/types"
)

// compare checks one server answer against the local engine. It returns an
// empty string when they agree.
func compare(engine *conversion.Engine, s Sample, status int, body []byte) string {
	want, wantErr := engine.Convert(s.Time, s.Event, s.From, s.To, s.Altitude)

	if wantErr != nil {
		if status != http.StatusBadRequest {
			return fmt.Sprintf("expected 400, got %d", status)
		}
		var got types.ErrorBody
		if err := json.Unmarshal(body, &got); err != nil {
			return fmt.Sprintf("undecodable error body: %v", err)
		}
		if code := types.ErrorCode(wantErr); got.Code != code {
			return fmt.Sprintf("error code %q, want %q", got.Code, code)
		}
		return ""
	}

	if status != http.StatusOK {
		return fmt.Sprintf("expected 200, got %d: %s", status, body)
	}
	var got types.ConversionResult
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Sprintf("undecodable result: %v", err)
	}

	exp := types.FromResult(want)
	switch {
	case got.ConvertedTime != exp.ConvertedTime:
		return fmt.Sprintf("converted_time %s, want %s", got.ConvertedTime, exp.ConvertedTime)
	case got.Factor != exp.Factor:
		return fmt.Sprintf("factor %v, want %v", got.Factor, exp.Factor)
	case got.FactorSource != exp.FactorSource:
		return fmt.Sprintf("factor_source %s, want %s", got.FactorSource, exp.FactorSource)
	case got.MappedEvent != exp.MappedEvent:
		return fmt.Sprintf("mapped_event %s, want %s", got.MappedEvent, exp.MappedEvent)
	case got.AltitudeAdjusted != exp.AltitudeAdjusted:
		return fmt.Sprintf("altitude_adjusted %v, want %v", got.AltitudeAdjusted, exp.AltitudeAdjusted)
	}
	return ""
}
