package main

import (
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
	"viamsudoku"
)

func main() {
	module.ModularMain(
		resource.APIModel{API: generic.API, Model: viamsudoku.BoardReaderModel},
		resource.APIModel{API: camera.API, Model: viamsudoku.BoardCameraModel},
	)
}
