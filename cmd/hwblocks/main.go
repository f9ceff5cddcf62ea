// The hwblocks command drives the hardware building blocks from the command
// line. Defaults can be placed in a .env file in the working directory.
package main

import "github.com/joho/godotenv"

func main() {
	_ = godotenv.Load()

	Execute()
}
