package main

func Greet() string { return "hi" }

// Name is a variable so the loader has to dereference it.
var Name = func() string { return "plugin funcs" }
