package main

// The tzdata fallback keeps timezone event validation working on hosts
// without a system zone database.
import _ "time/tzdata"

func main() {
	Execute()
}
