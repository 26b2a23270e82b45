package main

import (
	"github.com/sageflow/ptbcodec/cmd"
)

func main() {
	cmd.Execute()
}
