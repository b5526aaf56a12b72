package models

import (
	"log"

	"github.com/financelog/finance_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Account{},
		&Category{},
		&Transaction{},
		&Payment{}, &PaymentOccurrence{},
		&Investment{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
