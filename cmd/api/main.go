package main

import "donationtracker/cmd/api/cmd"

// @title Donation Tracker API
// @version 1.0
// @description Charity events, donations against them and a donation summary report.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cmd.Execute()
}
