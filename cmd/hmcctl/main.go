// hmcctl drives a HeadlessMC launcher from the command line.
package main

import "os"

func main() {
	os.Exit(Execute())
}
