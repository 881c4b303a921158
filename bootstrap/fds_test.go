package bootstrap

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFDSRoundTrip(t *testing.T) {
	names := []string{"100_200", "100_300", "400_500"}
	fds := []int{3, 4, 5}

	encoded := encodeFDS(names, fds)
	require.Equal(t, "100_200:3:100_300:4:400_500:5", encoded)

	decoded, err := decodeFDS(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i, name := range names {
		require.Equal(t, fds[i], decoded[name])
	}
}

func TestDecodeFDSEmpty(t *testing.T) {
	decoded, err := decodeFDS("")
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeFDSIgnoresTrailingUnpairedToken(t *testing.T) {
	decoded, err := decodeFDS("a:1:b")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1}, decoded)
}

func TestLoadFDSFromEnvWithoutEnvVarReturnsEmptyRegistry(t *testing.T) {
	require.NoError(t, os.Unsetenv(fdsEnvVar))

	topo := BuildTopology(testConfig())
	reg, err := LoadFDSFromEnv(topo)
	require.NoError(t, err)
	require.Empty(t, reg.All())
}
