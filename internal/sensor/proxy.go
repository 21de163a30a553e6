package sensor

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	proxyService   = "net.hadess.SensorProxy"
	proxyPath      = "/net/hadess/SensorProxy"
	proxyInterface = "net.hadess.SensorProxy"
)

// ProxySensor reads illuminance from iio-sensor-proxy over the system bus.
// The proxy normalizes vendor scaling, so LightLevel arrives as lux when
// LightLevelUnit says so; vendor units are passed through unchanged.
type ProxySensor struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	unit string
}

// NewProxySensor connects to iio-sensor-proxy and claims the light sensor.
func NewProxySensor(ctx context.Context) (*ProxySensor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: system bus: %v", ErrNotFound, err)
	}

	obj := conn.Object(proxyService, dbus.ObjectPath(proxyPath))

	has, err := obj.GetProperty(proxyInterface + ".HasAmbientLight")
	if err != nil {
		return nil, fmt.Errorf("%w: sensor proxy unavailable: %v", ErrNotFound, err)
	}
	if ok, _ := has.Value().(bool); !ok {
		return nil, fmt.Errorf("%w: sensor proxy reports no ambient light sensor", ErrNotFound)
	}

	// Claiming keeps the proxy polling the hardware while we run.
	if call := obj.CallWithContext(ctx, proxyInterface+".ClaimLight", 0); call.Err != nil {
		return nil, fmt.Errorf("%w: claim light: %v", ErrNotFound, call.Err)
	}

	s := &ProxySensor{conn: conn, obj: obj, unit: "lux"}
	if unit, err := obj.GetProperty(proxyInterface + ".LightLevelUnit"); err == nil {
		if u, ok := unit.Value().(string); ok && u != "" {
			s.unit = u
		}
	}
	return s, nil
}

// Name identifies the proxy source and its reported unit.
func (s *ProxySensor) Name() string {
	return fmt.Sprintf("iio-sensor-proxy (%s)", s.unit)
}

// ReadLux returns the proxy's current light level.
func (s *ProxySensor) ReadLux() (float64, error) {
	v, err := s.obj.GetProperty(proxyInterface + ".LightLevel")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRead, err)
	}
	lux, ok := v.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected light level type %T", ErrRead, v.Value())
	}
	return lux, nil
}

// Close releases the light claim and the bus connection.
func (s *ProxySensor) Close() error {
	_ = s.obj.Call(proxyInterface+".ReleaseLight", 0).Err
	return s.conn.Close()
}
