package main

func Foo() {}
