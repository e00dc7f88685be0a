package main

import "github.com/oneai-dev/oneai/internal/ctl"

func main() {
	ctl.Execute()
}
