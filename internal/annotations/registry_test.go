package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []AnnotationType{
		ComponentAnnotation,
		ControllerAnnotation,
		ConfigurationAnnotation,
		FactoryAnnotation,
		InterceptorAnnotation,
		HandlerAnnotation,
	}, reg.ListTypes())

	schema, err := reg.GetSchema(HandlerAnnotation)
	require.NoError(t, err)
	assert.True(t, schema.Parameters["Interceptors"].Required)
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.IsRegistered(ComponentAnnotation))

	require.NoError(t, reg.Register(ComponentAnnotation, ComponentAnnotationSchema))
	assert.True(t, reg.IsRegistered(ComponentAnnotation))

	err := reg.Register(ComponentAnnotation, ComponentAnnotationSchema)
	assert.ErrorContains(t, err, "already registered")

	err = reg.Register(FactoryAnnotation, ComponentAnnotationSchema)
	assert.ErrorContains(t, err, "does not match")

	_, err = reg.GetSchema(HandlerAnnotation)
	assert.ErrorContains(t, err, "not registered")
}

func TestAnnotationTypeRoundTrip(t *testing.T) {
	for _, at := range DefaultRegistry().ListTypes() {
		parsed, err := ParseAnnotationType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, parsed)
	}
	assert.True(t, ComponentAnnotation.OnType())
	assert.False(t, HandlerAnnotation.OnType())
	assert.False(t, FactoryAnnotation.OnType())
}
