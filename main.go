package main

import "github.com/saadjs/mealwise/cmd/mealwise"

func main() {
	mealwise.Execute()
}
