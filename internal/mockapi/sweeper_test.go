package mockapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkledger/internal/mockapi/store"
)

func TestSweepExpiredOTPCodes(t *testing.T) {
	st, err := store.Open(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SaveOTP("+11111111111", "1111", time.Now().Add(-time.Minute)))
	require.NoError(t, st.SaveOTP("+12222222222", "2222", time.Now().Add(5*time.Minute)))

	require.NoError(t, NewSweeper(st).SweepExpiredOTPCodes())

	ok, err := st.ConsumeOTP("+12222222222", "2222")
	require.NoError(t, err)
	assert.True(t, ok, "live codes survive the sweep")

	ok, err = st.ConsumeOTP("+11111111111", "1111")
	require.NoError(t, err)
	assert.False(t, ok)
}
