package res

import (
	"encoding/json"
	"testing"
	"time"
)

func fixClock(t *testing.T, ts time.Time) {
	t.Helper()
	prev := Now
	Now = func() time.Time { return ts }
	t.Cleanup(func() { Now = prev })
}

func TestSuccessEnvelope(t *testing.T) {
	fixClock(t, time.Date(2024, 3, 1, 12, 30, 45, 999000000, time.FixedZone("CET", 3600)))

	env := Success("", map[string]int{"n": 1})
	if env.Status != StatusSuccess || env.Message != DefaultSuccessMessage {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.Timestamp != "2024-03-01T11:30:45Z" {
		t.Errorf("timestamp = %q", env.Timestamp)
	}

	if got := Success("Customer created successfully", nil).Message; got != "Customer created successfully" {
		t.Errorf("message = %q", got)
	}
}

func TestErrorEnvelopeSerializesNullData(t *testing.T) {
	fixClock(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(Error("Customer not found with ID: x", nil))
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ERROR" || body["message"] != "Customer not found with ID: x" || body["timestamp"] != "2024-03-01T00:00:00Z" {
		t.Errorf("unexpected body %v", body)
	}
	if v, ok := body["data"]; !ok || v != nil {
		t.Errorf("data must be present and null, got %v (present=%v)", v, ok)
	}
}
