package domain

type Table string

const (
	TableEvents Table = "events"
)
