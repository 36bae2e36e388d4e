package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sweet_units_purchased_total", Help: "Units sold through purchase"},
		[]string{"category"},
	)
	unitsRestocked = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sweet_units_restocked_total", Help: "Units added through restock"},
		[]string{"category"},
	)
)
