package model

import "testing"

func TestNewMessageAssignsSortableID(t *testing.T) {
	t.Parallel()

	a := NewMessage("bob", "first", 1, KindText, nil)
	b := NewMessage("bob", "second", 2, KindText, nil)

	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected ids to be assigned")
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestMessageDurability(t *testing.T) {
	t.Parallel()

	durable := []MessageKind{KindText, KindMention, KindMovie, KindAIResponse}
	for _, k := range durable {
		if !(Message{Kind: k}).Durable() {
			t.Fatalf("expected %q to be durable", k)
		}
	}
	transient := []MessageKind{KindAIChat, KindCommandCard}
	for _, k := range transient {
		if (Message{Kind: k}).Durable() {
			t.Fatalf("expected %q to be transient", k)
		}
	}
}

func TestNewAccountValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewAccount("", "", "nick", "hash"); err == nil {
		t.Fatalf("expected an error for an empty username")
	}
	if _, err := NewAccount("", "bob", "nick", ""); err == nil {
		t.Fatalf("expected an error for an empty password hash")
	}

	a, err := NewAccount("", "bob", "nick", "hash")
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected a generated id")
	}
}
