package health

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/johnpc/fit-cli/internal/model"
)

const kjPerKcal = 4.184

// ParseJSON reads a JSON array of samples:
//
//	[{"type": "activeEnergyBurned", "value": 12.5, "unit": "kcal",
//	  "start": "2026-03-07T08:00:00Z", "end": "2026-03-07T08:05:00Z",
//	  "source": "watch"}]
//
// Type names may carry the HKQuantityTypeIdentifier prefix used by health
// exports. Energy given in kJ is converted to kcal.
func ParseJSON(r io.Reader) ([]model.HealthSample, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read health samples: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("health samples must be valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if doc.Get("samples").IsArray() {
		doc = doc.Get("samples")
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("health samples must be a JSON array")
	}

	items := doc.Array()
	out := make([]model.HealthSample, 0, len(items))
	for i, item := range items {
		kind := normalizeKind(item.Get("type").String())
		if !kind.Valid() {
			return nil, fmt.Errorf("sample %d: unsupported type %q", i, item.Get("type").String())
		}
		value := item.Get("value")
		if value.Type != gjson.Number {
			return nil, fmt.Errorf("sample %d: value must be a number", i)
		}
		v := value.Float()
		if kind != StepCount && strings.EqualFold(item.Get("unit").String(), "kJ") {
			v = v / kjPerKcal
		}
		start, err := time.Parse(time.RFC3339, item.Get("start").String())
		if err != nil {
			return nil, fmt.Errorf("sample %d: invalid start time: %w", i, err)
		}
		end := start
		if e := item.Get("end"); e.Exists() {
			end, err = time.Parse(time.RFC3339, e.String())
			if err != nil {
				return nil, fmt.Errorf("sample %d: invalid end time: %w", i, err)
			}
		}
		out = append(out, model.HealthSample{
			Kind:    string(kind),
			Value:   v,
			StartAt: start,
			EndAt:   end,
			Source:  item.Get("source").String(),
		})
	}
	return out, nil
}

func normalizeKind(name string) Kind {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "HKQuantityTypeIdentifier")
	if name == "" {
		return ""
	}
	return Kind(strings.ToLower(name[:1]) + name[1:])
}
