package vessel_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vessel/pkg/vessel"
)

type NotAnInterceptor struct{}

func TestHandler_RequiresInterceptorTypes(t *testing.T) {
	reg := vessel.NewRegistry()

	require.NoError(t, vessel.Handler(reg, "orders.create", vessel.TypeOf[TimingInterceptor]()))

	err := vessel.Handler(reg, "orders.create", vessel.TypeOf[*NotAnInterceptor]())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not implement vessel.HandlerInterceptor")

	err = vessel.Handler(reg, "orders.create", nil)
	assert.Error(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, reflect.TypeOf(&TimingInterceptor{}), reg.Entries()[0].Interceptors[0])
}

func TestRegistrationHelpers(t *testing.T) {
	reg := vessel.NewRegistry()

	require.NoError(t, vessel.Component[Settings](reg))
	require.NoError(t, vessel.Controller[*HealthController](reg))
	require.NoError(t, vessel.ControllerAt[*UserController](reg, "/users"))
	require.NoError(t, vessel.Configuration[*DBConfig](reg, "Database"))

	assert.Error(t, vessel.Component[string](reg))
	assert.Error(t, vessel.Configuration[*DBConfig](reg))

	entries := reg.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, vessel.TypeOf[*Settings](), entries[0].Type)
	assert.Equal(t, "/users", entries[2].BasePath)
	assert.Equal(t, []string{"Database"}, entries[3].Factories)
}
