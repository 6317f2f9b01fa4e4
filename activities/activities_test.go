package activities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"mitra-credit/shared"
)

func fixedActivities() *Activities {
	return &Activities{
		Providers: []string{"amazon", "razorpay", "utility"},
		Now:       func() time.Time { return time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC) },
		NewID:     func() string { return "0001" },
	}
}

func TestSendOTP(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := fixedActivities()
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.SendOTP, shared.OTPRequest{SessionID: "S-1", Mobile: "+91 98765 43210"})
	require.NoError(t, err)

	var reference string
	require.NoError(t, val.Get(&reference))
	assert.Equal(t, "OTP-0001", reference)
}

func TestRecordConsent(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := fixedActivities()
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.RecordConsent, shared.ConsentRequest{
		SessionID:    "S-1",
		BusinessName: "Demo Enterprises",
		GSTIN:        "29ABCDE1234F1Z5",
	})
	require.NoError(t, err)

	var artefact shared.ConsentArtefact
	require.NoError(t, val.Get(&artefact))
	assert.Equal(t, "AA-0001", artefact.Handle)
	assert.True(t, artefact.GrantedAt.Equal(time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)))
}

func TestLinkDataSource_Known(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := fixedActivities()
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.LinkDataSource, shared.DataSourceRequest{SessionID: "S-1", Provider: "razorpay"})
	require.NoError(t, err)

	var reference string
	require.NoError(t, val.Get(&reference))
	assert.Equal(t, "LINK-razorpay-0001", reference)
}

func TestLinkDataSource_UnknownIsNonRetryable(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := fixedActivities()
	env.RegisterActivity(a)

	_, err := env.ExecuteActivity(a.LinkDataSource, shared.DataSourceRequest{SessionID: "S-1", Provider: "gpay"})
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, shared.ErrTypeUnknownDataProvider, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestLinkDataSource_NoAllowListAcceptsAny(t *testing.T) {
	a := &Activities{}
	assert.True(t, a.knownProvider("anything"))
}

func TestMaskMobile(t *testing.T) {
	assert.Equal(t, "+** ***** *3210", MaskMobile("+91 98765 43210"))
	assert.Equal(t, "123", MaskMobile("123"))
	assert.Equal(t, "", MaskMobile(""))
}
