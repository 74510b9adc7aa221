package framework

import "testing"

func TestLookup_AllIDsRegistered(t *testing.T) {
	ids := []ID{Rails, Spring, Grails, Lift, JavaWeb, Sinatra, Node, PHP, WSGI, Django, Rack}

	if len(All()) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(All()))
	}

	for _, id := range ids {
		e, ok := Lookup(id)
		if !ok {
			t.Fatalf("id %d missing from registry", id)
		}
		if e.Memory == "" || e.Description == "" {
			t.Errorf("entry %s has empty metadata: %+v", e.Key, e)
		}
		back, ok := Parse(e.Key)
		if !ok || back != id {
			t.Errorf("Parse(%q) = %v, %v; want %v", e.Key, back, ok, id)
		}
	}
}

func TestLookup_Values(t *testing.T) {
	tests := []struct {
		id          ID
		key         string
		memory      string
		description string
	}{
		{Rails, "rails", "256M", "Rails Application"},
		{JavaWeb, "java_web", "512M", "Java Web Application"},
		{Node, "node", "64M", "Node.js Application"},
		{Django, "django", "128M", "Python Django Application"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			e, ok := Lookup(tt.id)
			if !ok {
				t.Fatalf("lookup failed for %s", tt.key)
			}
			if e.Key != tt.key || e.Memory != tt.memory || e.Description != tt.description {
				t.Errorf("got %+v", e)
			}
			if tt.id.String() != tt.key {
				t.Errorf("String() = %q, want %q", tt.id.String(), tt.key)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Lookup(ID(0)); ok {
		t.Fatal("zero ID should not be registered")
	}
	if _, ok := Parse("cobol"); ok {
		t.Fatal("unexpected key parsed")
	}
	if ID(99).String() != "unknown" {
		t.Fatalf("unexpected String() for unregistered id: %s", ID(99).String())
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	entries := All()
	entries[0].Memory = "1G"

	e, _ := Lookup(Rails)
	if e.Memory != "256M" {
		t.Fatalf("registry mutated through All(): %s", e.Memory)
	}
}
