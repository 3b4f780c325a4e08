package main

import (
	"github.com/airenas/audio2text/internal/app/transcription"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	transcription.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
                 ___       ___  __            __
  ____ ___  ____/ (_)___  |__ \/ /____  _  __/ /_
 / __ ` + "`" + `/ / / / __  / / __ \__/ / __/ _ \| |/_/ __/
/ /_/ / /_/ / /_/ / / /_/ / __/ /_/  __/>  </ /_
\__,_/\__,_/\__,_/_/\____/____/\__/\___/_/|_|\__/  v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/airenas/audio2text"))
}
