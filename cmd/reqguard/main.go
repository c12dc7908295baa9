// Command reqguard runs an HTTP front that applies IP filtering, named CORS
// policies, correlation ids and content-negotiated error responses.
package main

func main() {
	Execute()
}
