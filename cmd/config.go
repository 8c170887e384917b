package main

import "time"

type Config struct {
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	ReportInterval time.Duration `env:"REPORT_INTERVAL,default=10s"`
	RestaurantID   string        `env:"RESTAURANT_ID,default=resto-demo"`
}
