package mqttv5

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonCodeString(t *testing.T) {
	assert.Equal(t, "Success", ReasonSuccess.String())
	assert.Equal(t, "Not authorized", ReasonNotAuthorized.String())
	assert.Equal(t, "Unknown reason code", ReasonCode(0xFF).String())
}

func TestReasonCodeIsErrorAndIsSuccess(t *testing.T) {
	assert.False(t, ReasonSuccess.IsError())
	assert.True(t, ReasonSuccess.IsSuccess())
	assert.True(t, ReasonNotAuthorized.IsError())
	assert.False(t, ReasonNotAuthorized.IsSuccess())
}

func TestReasonGrantedQoS0AliasesSuccess(t *testing.T) {
	assert.Equal(t, ReasonSuccess, ReasonGrantedQoS0)
}

func TestReasonCodeValidForPUBACKAndPUBREC(t *testing.T) {
	assert.True(t, ReasonNoMatchingSubscribers.ValidForPUBACK())
	assert.True(t, ReasonNoMatchingSubscribers.ValidForPUBREC())
	assert.False(t, ReasonPacketIDNotFound.ValidForPUBACK())
	assert.False(t, ReasonPacketIDNotFound.ValidForPUBREC())
}

func TestReasonCodeValidForPUBRELAndPUBCOMP(t *testing.T) {
	assert.True(t, ReasonPacketIDNotFound.ValidForPUBREL())
	assert.True(t, ReasonPacketIDNotFound.ValidForPUBCOMP())
	assert.False(t, ReasonNotAuthorized.ValidForPUBREL())
	assert.False(t, ReasonNotAuthorized.ValidForPUBCOMP())
}

func TestReasonCodePacketIDInUseValidForAckFamilyButNotPubrelOrAuth(t *testing.T) {
	assert.True(t, ReasonPacketIDInUse.ValidForPUBACK())
	assert.True(t, ReasonPacketIDInUse.ValidForPUBREC())
	assert.True(t, ReasonPacketIDInUse.ValidForSUBACK())
	assert.True(t, ReasonPacketIDInUse.ValidForUNSUBACK())
	assert.False(t, ReasonPacketIDInUse.ValidForPUBREL())
	assert.False(t, ReasonPacketIDInUse.ValidForPUBCOMP())
	assert.False(t, ReasonPacketIDInUse.ValidForAUTH())
}

func TestReasonCodeValidForSUBACKAndUNSUBACK(t *testing.T) {
	assert.True(t, ReasonGrantedQoS2.ValidForSUBACK())
	assert.False(t, ReasonGrantedQoS2.ValidForUNSUBACK())
	assert.True(t, ReasonNoSubscriptionExisted.ValidForUNSUBACK())
	assert.False(t, ReasonNoSubscriptionExisted.ValidForSUBACK())
}

func TestReasonCodeValidForCONNACK(t *testing.T) {
	assert.True(t, ReasonBadUserNameOrPassword.ValidForCONNACK())
	assert.False(t, ReasonPacketIDNotFound.ValidForCONNACK())
}

func TestReasonCodeValidForDISCONNECT(t *testing.T) {
	assert.True(t, ReasonServerShuttingDown.ValidForDISCONNECT())
	assert.True(t, ReasonDisconnectWithWill.ValidForDISCONNECT())
	assert.False(t, ReasonPacketIDInUse.ValidForDISCONNECT())
}

func TestReasonCodeValidForAUTH(t *testing.T) {
	assert.True(t, ReasonSuccess.ValidForAUTH())
	assert.True(t, ReasonContinueAuth.ValidForAUTH())
	assert.True(t, ReasonReAuth.ValidForAUTH())
	assert.False(t, ReasonUnspecifiedError.ValidForAUTH())
	assert.False(t, ReasonNotAuthorized.ValidForAUTH())
}
