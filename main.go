package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/matteusmoreira/IWE-sub001/api"
	"github.com/matteusmoreira/IWE-sub001/server"
	"github.com/urfave/cli"
)

// @title enrollments API
// @version 0.1
// @description Api for enrollment payment logic.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /
// @schemes http https

// @securityDefinitions.apiKey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load("dev.env")

	app := cli.NewApp()
	app.Name = "Enrollment Payments Service"
	app.Version = "1.00"
	app.Compiled = time.Now()
	app.Authors = []cli.Author{
		{
			Name: "Matteus Moreira",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "backend-up",
			Usage: "This command starts the backend service",
			Action: func(c *cli.Context) error {
				StartServer(api.GetRoutes())
				return nil
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func StartServer(routes []*server.Route) {
	ctx := server.GetAppContext()
	ctx.CreatePostgresConnection()
	ctx.CreateSMTPConnection()
	ctx.CreateMercadoPagoIntegration()

	server.UpServer(routes, ctx)
}
