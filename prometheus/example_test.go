package prometheus_test

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/abczzz13/reqguard/ipfilter"
	reqguardprom "github.com/abczzz13/reqguard/prometheus"
)

func deniedCount(registry *prom.Registry) float64 {
	families, err := registry.Gather()
	if err != nil {
		panic(err)
	}

	var total float64
	for _, family := range families {
		if family.GetName() != "ip_access_decisions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "decision" && label.GetValue() == "deny" {
					total += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func ExampleWithRegisterer() {
	registry := prom.NewRegistry()

	guard, err := ipfilter.New(
		ipfilter.WithEntries(ipfilter.Entry{Address: "192.168.0.196"}),
		reqguardprom.WithRegisterer(registry),
	)
	if err != nil {
		panic(err)
	}

	guard.Evaluate(&http.Request{RemoteAddr: "192.168.0.197:5000", Header: make(http.Header)})

	fmt.Printf("%.0f\n", deniedCount(registry))
	// Output: 1
}

func ExampleNewWithRegisterer() {
	registry := prom.NewRegistry()

	metrics, err := reqguardprom.NewWithRegisterer(registry)
	if err != nil {
		panic(err)
	}

	guard, err := ipfilter.New(
		ipfilter.WithEntries(ipfilter.Entry{Address: "10.0.0.1", Denied: true}),
		ipfilter.WithMetrics(metrics),
	)
	if err != nil {
		panic(err)
	}

	fmt.Println(guard.Evaluate(&http.Request{RemoteAddr: "10.0.0.1:80", Header: make(http.Header)}))
	fmt.Printf("%.0f\n", deniedCount(registry))
	// Output:
	// deny
	// 1
}
