package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW and the GL context live on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
