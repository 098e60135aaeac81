package claude

import "testing"

type themesPayload struct {
	Themes []struct {
		Name string `json:"name"`
	} `json:"themes"`
}

func TestDecodeJSONRaw(t *testing.T) {
	var parsed themesPayload
	if err := DecodeJSON(`{"themes":[{"name":"models"}]}`, &parsed); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(parsed.Themes) != 1 || parsed.Themes[0].Name != "models" {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestDecodeJSONCodeFence(t *testing.T) {
	content := "```json\n{\"themes\":[{\"name\":\"models\"}]}\n```"
	var parsed themesPayload
	if err := DecodeJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(parsed.Themes) != 1 {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestDecodeJSONEmbeddedInProse(t *testing.T) {
	content := `Here is the JSON you asked for: {"themes":[{"name":"models"}]} hope that helps!`
	var parsed themesPayload
	if err := DecodeJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(parsed.Themes) != 1 {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	var parsed themesPayload
	if err := DecodeJSON("not json at all", &parsed); err == nil {
		t.Fatal("expected decode failure")
	}
}

func TestDecodeJSONRejectsEmpty(t *testing.T) {
	var parsed themesPayload
	if err := DecodeJSON("   ", &parsed); err == nil {
		t.Fatal("expected empty payload error")
	}
}
