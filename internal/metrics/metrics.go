package metrics

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is prefixed before every metric. If it is changed, it must be done
// before any metrics collector is registered.
var Namespace = "onyx"

type Collector interface {
	Metrics() []prometheus.Collector
}

// PrometheusCollectorsFromFields returns every exported prometheus.Collector
// field of the struct i points to.
func PrometheusCollectorsFromFields(i interface{}) (cs []prometheus.Collector) {
	v := reflect.Indirect(reflect.ValueOf(i))
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).CanInterface() {
			continue
		}
		if u, ok := v.Field(i).Interface().(prometheus.Collector); ok {
			cs = append(cs, u)
		}
	}
	return cs
}

// Register registers the collectors of every source with r
func Register(r prometheus.Registerer, sources ...Collector) error {
	for _, s := range sources {
		for _, c := range s.Metrics() {
			if err := r.Register(c); err != nil {
				return err
			}
		}
	}
	return nil
}
