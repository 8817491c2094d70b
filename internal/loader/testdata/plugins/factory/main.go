package main

type greeter struct{}

func (greeter) Greet() string { return "hello" }
func (greeter) Name() string  { return "plugin factory" }

func New() *greeter { return &greeter{} }
