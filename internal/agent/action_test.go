package agent

import "testing"

func TestDecodeActionValidToolCall(t *testing.T) {
	action, ok := decodeAction(`{"tool":"quote_lead","parameters":{"job_type":"roofing","square_footage":1000}}`)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if action.Tool != "quote_lead" {
		t.Errorf("tool = %q", action.Tool)
	}
	if got := action.stringParam("job_type", "general service"); got != "roofing" {
		t.Errorf("job_type = %q", got)
	}
	if got := action.numberParam("square_footage", 0); got != 1000 {
		t.Errorf("square_footage = %v", got)
	}
}

func TestDecodeActionPlainText(t *testing.T) {
	for _, reply := range []string{
		"Sure, what size is the roof?",
		"Call {our office} for details",
		"",
	} {
		if _, ok := decodeAction(reply); ok {
			t.Errorf("decodeAction(%q) = true, want false", reply)
		}
	}
}

func TestDecodeActionMalformedDelimitedText(t *testing.T) {
	if _, ok := decodeAction(`{"tool": "quote_lead", "parameters": {`); ok {
		t.Error("malformed braced text decoded as action")
	}
	if _, ok := decodeAction(`{not json at all}`); ok {
		t.Error("non-json braced text decoded as action")
	}
}

func TestDecodeActionSurroundingWhitespace(t *testing.T) {
	action, ok := decodeAction("\n  {\"tool\":\"sms_reply\",\"parameters\":{\"message\":\"hi\"}}  \n")
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if action.Tool != "sms_reply" {
		t.Errorf("tool = %q", action.Tool)
	}
}

func TestParamHelpersDefaults(t *testing.T) {
	action := ActionRequest{Parameters: map[string]any{
		"time":   42.0,
		"sqft":   "950",
		"truthy": true,
	}}

	if got := action.stringParam("missing", "TBD"); got != "TBD" {
		t.Errorf("missing string = %q", got)
	}
	if got := action.stringParam("time", "TBD"); got != "TBD" {
		t.Errorf("mistyped string = %q", got)
	}
	if got := action.numberParam("sqft", 0); got != 950 {
		t.Errorf("string number = %v", got)
	}
	if got := action.numberParam("truthy", 7); got != 7 {
		t.Errorf("mistyped number = %v", got)
	}
}

func TestParamHelpersNilParameters(t *testing.T) {
	action := ActionRequest{Tool: "quote_lead"}
	if got := action.stringParam("job_type", "general service"); got != "general service" {
		t.Errorf("job_type = %q", got)
	}
	if got := action.numberParam("square_footage", 0); got != 0 {
		t.Errorf("square_footage = %v", got)
	}
}
