// Package models holds the GORM persistence models behind the account
// and transaction repositories. They stay separate from the domain
// entities so the domain layer carries no ORM tags; mappers in this
// package convert in both directions.
//
// base.go has the columns every table shares, accounting.go the chart
// of accounts, transaction headers, and posting lines.
package models
