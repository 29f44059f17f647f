package main

import (
	"flag"
	"os"

	"github.com/caarlos0/env/v11"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-list/internal/export"
	"gitlab.com/dirk.krummacker/contact-list/internal/logging"
	"gitlab.com/dirk.krummacker/contact-list/internal/persistence"
	"go.uber.org/zap"
)

// database holds the connection parameters of the target database.
type database struct {
	Host     string `env:"DBHOST" envDefault:"localhost"`
	User     string `env:"DBUSER"`
	Password string `env:"DBPWD"`
	Name     string `env:"DBNAME" envDefault:"test"`
}

// Restores a SQL export of the contact list into a MySQL database, statement by statement.
//
// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../tongxunlu_backup.sql
func main() {
	filePtr := flag.String("file", export.Filename, "the sql file to execute")
	flag.Parse()

	logger, err := logging.New("info")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var target database
	if err := env.Parse(&target); err != nil {
		logger.Fatal("could not read configuration", zap.Error(err))
	}

	script, err := os.ReadFile(*filePtr) // nosemgrep
	if err != nil {
		logger.Fatal("could not read sql file", zap.String("file", *filePtr), zap.Error(err))
	}

	db, err := sqlx.Open("mysql", persistence.MySQLDSN(target.User, target.Password, target.Host, target.Name))
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}
	defer db.Close()

	statements := export.SplitStatements(string(script))
	for _, statement := range statements {
		db.MustExec(statement)
	}
	logger.Info("sql file executed", zap.String("file", *filePtr), zap.Int("statements", len(statements)))
}
