package domain

import (
	"encoding/json"
	"testing"
)

func TestEntryJSONRoundTrip(t *testing.T) {
	e := Entry{
		Role:    RoleUser,
		Kind:    KindMessage,
		Content: "What is the weather in Boston?",
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Entry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Role != e.Role || got.Kind != e.Kind || got.Content != e.Content {
		t.Errorf("got %+v, want %+v", got, e)
	}
}

func TestEntryWireKindField(t *testing.T) {
	// The backend uses "type" as the discriminant field name.
	raw := `{"role":"assistant","type":"tool_use","tool":"get_weather","id":"toolu_1","arguments":{"lat":42.36,"lon":-71.06}}`

	var got Entry
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !got.IsToolUse() {
		t.Errorf("kind = %q, want %q", got.Kind, KindToolUse)
	}
	if got.Tool != ToolWeather || got.ID != "toolu_1" {
		t.Errorf("got tool=%q id=%q", got.Tool, got.ID)
	}
	if len(got.Arguments) == 0 {
		t.Error("arguments not captured")
	}
}

func TestTurnDecodesConversationArray(t *testing.T) {
	raw := `{"conversation":[
		{"role":"user","type":"message","content":"hi"},
		{"role":"assistant","type":"message","content":"hello"}
	]}`

	var turn Turn
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(turn.Entries) != 2 {
		t.Fatalf("len = %d, want 2", len(turn.Entries))
	}
	if turn.Entries[1].Role != RoleAssistant {
		t.Errorf("entries[1].Role = %q", turn.Entries[1].Role)
	}
}

func TestEchoesUser(t *testing.T) {
	e := Entry{Role: RoleUser, Kind: KindMessage, Content: "hi"}
	if !e.EchoesUser("hi") {
		t.Error("expected echo match")
	}
	if e.EchoesUser("other") {
		t.Error("unexpected echo match on different content")
	}
	tool := Entry{Role: RoleUser, Kind: KindToolResult, Content: "hi"}
	if tool.EchoesUser("hi") {
		t.Error("tool_result must never count as an echo")
	}
}
