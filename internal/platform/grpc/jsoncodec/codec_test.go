package jsoncodec

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

type sample struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

func TestCodecIsRegistered(t *testing.T) {
	if encoding.GetCodec(Name) == nil {
		t.Fatalf("codec %q is not registered", Name)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := Codec{}
	data, err := codec.Marshal(&sample{Name: "lab.explo", Content: "x;y"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got sample
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "lab.explo" || got.Content != "x;y" {
		t.Fatalf("got %+v", got)
	}
}

func TestCodecEmptyPayload(t *testing.T) {
	var got sample
	if err := (Codec{}).Unmarshal(nil, &got); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if _, err := (Codec{}).Marshal(nil); err == nil {
		t.Fatal("expected nil message error")
	}
}
