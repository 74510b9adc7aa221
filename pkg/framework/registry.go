package framework

// DefaultMemory is the allocation callers fall back to when no framework is detected
const DefaultMemory = "256M"

// ID identifies a runtime framework the detector can report
type ID int

const (
	Rails ID = iota + 1
	Spring
	Grails
	Lift
	JavaWeb
	Sinatra
	Node
	PHP
	WSGI
	Django
	Rack
)

// Entry is the static metadata registered for a framework
type Entry struct {
	ID          ID
	Key         string
	Memory      string
	Description string
}

var registry = []Entry{
	{ID: Rails, Key: "rails", Memory: "256M", Description: "Rails Application"},
	{ID: Spring, Key: "spring", Memory: "512M", Description: "Java SpringSource Spring Application"},
	{ID: Grails, Key: "grails", Memory: "512M", Description: "Java SpringSource Grails Application"},
	{ID: Lift, Key: "lift", Memory: "512M", Description: "Scala Lift Application"},
	{ID: JavaWeb, Key: "java_web", Memory: "512M", Description: "Java Web Application"},
	{ID: Sinatra, Key: "sinatra", Memory: "128M", Description: "Sinatra Application"},
	{ID: Node, Key: "node", Memory: "64M", Description: "Node.js Application"},
	{ID: PHP, Key: "php", Memory: "128M", Description: "PHP Application"},
	{ID: WSGI, Key: "wsgi", Memory: "64M", Description: "Python WSGI Application"},
	{ID: Django, Key: "django", Memory: "128M", Description: "Python Django Application"},
	{ID: Rack, Key: "rack", Memory: "128M", Description: "Rack Application"},
}

// Lookup returns the registry entry for id
func Lookup(id ID) (Entry, bool) {
	for _, e := range registry {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Parse maps a registry key such as "java_web" back to its ID
func Parse(key string) (ID, bool) {
	for _, e := range registry {
		if e.Key == key {
			return e.ID, true
		}
	}
	return 0, false
}

// All returns a copy of every registered entry in declaration order
func All() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

func (id ID) String() string {
	if e, ok := Lookup(id); ok {
		return e.Key
	}
	return "unknown"
}
