package api

import "time"

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	PublicURL       string        `envconfig:"PUBLIC_URL" split_words:"true"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
}
