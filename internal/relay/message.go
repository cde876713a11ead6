// Package relay answers the tagged JSON messages a companion device sends:
// data requests, food additions and deletions, and health totals pushed from
// the device.
package relay

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

type Action string

const (
	RequestData   Action = "requestData"
	AddFood       Action = "addFood"
	DeleteFood    Action = "deleteFood"
	SyncHealthKit Action = "syncHealthKit"
)

// Message is a decoded device message. Only the fields for its Action are
// set.
type Message struct {
	Action   Action
	Name     string
	Calories int
	Protein  *int
	ID       string
	Active   float64
	Base     float64
	Steps    float64
}

// Decode parses one message. Unknown actions and messages missing a required
// field return an error; the dispatcher logs and drops them.
func Decode(raw []byte) (Message, error) {
	if !gjson.ValidBytes(raw) {
		return Message{}, fmt.Errorf("message is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Message{}, fmt.Errorf("message must be a JSON object")
	}
	action := doc.Get("action")
	if action.Type != gjson.String {
		return Message{}, fmt.Errorf("message has no action")
	}

	m := Message{Action: Action(action.String())}
	switch m.Action {
	case RequestData:
	case AddFood:
		name, calories := doc.Get("name"), doc.Get("calories")
		if name.Type != gjson.String || !isInt(calories) {
			return Message{}, fmt.Errorf("addFood needs a name and integer calories")
		}
		m.Name = name.String()
		m.Calories = int(calories.Int())
		if p := doc.Get("protein"); isInt(p) && p.Int() != 0 {
			v := int(p.Int())
			m.Protein = &v
		}
	case DeleteFood:
		id := doc.Get("id")
		if id.Type != gjson.String || strings.TrimSpace(id.String()) == "" {
			return Message{}, fmt.Errorf("deleteFood needs an id")
		}
		m.ID = id.String()
	case SyncHealthKit:
		active, base, steps := doc.Get("activeCalories"), doc.Get("baseCalories"), doc.Get("steps")
		if active.Type != gjson.Number || base.Type != gjson.Number || steps.Type != gjson.Number {
			return Message{}, fmt.Errorf("syncHealthKit needs activeCalories, baseCalories and steps")
		}
		m.Active, m.Base, m.Steps = active.Float(), base.Float(), steps.Float()
	default:
		return Message{}, fmt.Errorf("unknown action %q", m.Action)
	}
	return m, nil
}

func isInt(r gjson.Result) bool {
	return r.Type == gjson.Number && r.Num == float64(int64(r.Num))
}
