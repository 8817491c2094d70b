package main

var Exports = map[string]any{
	"Greet": func() string { return "hey" },
	"Name":  func() string { return "plugin exports" },
}
