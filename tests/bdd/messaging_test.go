package bdd

import "github.com/cucumber/godog"

// Feature: Shipment messaging
//   In order to coordinate a customs clearance
//   As agents and officers on the same shipment
//   I want to exchange messages, see read receipts and track unread counts
//
//   Background:
//     Given "agentA" is registered and holds token "tokenA"
//     And "officerB" is registered and holds token "tokenB"
//     And shipment "SHP-1" exists with "agentA" and "officerB" as participants
//
//   Scenario: Send and receive a message
//     Given "agentA" and "officerB" are connected to shipment "SHP-1"
//     When "agentA" sends message "BL documents uploaded"
//     Then "officerB" should receive message "BL documents uploaded"
//     And the unread count of "officerB" for "SHP-1" should be 1
//
//   Scenario: Read receipts reset unread counters
//     Given "officerB" has 1 unread message on "SHP-1"
//     When "officerB" reads the messages of "SHP-1"
//     Then "agentA" should receive a read receipt from "officerB"
//     And the unread count of "officerB" for "SHP-1" should be 0
//
//   Scenario: Access is denied outside the shipment
//     When "outsiderC" tries to join shipment "SHP-1"
//     Then the join should fail with code "ACCESS_DENIED"

func isRegisteredAndHoldsToken(arg1, arg2 string) error {
	return godog.ErrPending
}

func shipmentExistsWithParticipants(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func areConnectedToShipment(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func sendsMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldReceiveMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func unreadCountShouldBe(arg1, arg2 string, arg3 int) error {
	return godog.ErrPending
}

func hasUnreadMessagesOn(arg1 string, arg2 int, arg3 string) error {
	return godog.ErrPending
}

func readsTheMessagesOf(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldReceiveAReadReceiptFrom(arg1, arg2 string) error {
	return godog.ErrPending
}

func triesToJoinShipment(arg1, arg2 string) error {
	return godog.ErrPending
}

func theJoinShouldFailWithCode(arg1 string) error {
	return godog.ErrPending
}

func InitializeMessagingScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" is registered and holds token "([^"]*)"$`, isRegisteredAndHoldsToken)
	ctx.Step(`^shipment "([^"]*)" exists with "([^"]*)" and "([^"]*)" as participants$`, shipmentExistsWithParticipants)
	ctx.Step(`^"([^"]*)" and "([^"]*)" are connected to shipment "([^"]*)"$`, areConnectedToShipment)
	ctx.Step(`^"([^"]*)" sends message "([^"]*)"$`, sendsMessage)
	ctx.Step(`^"([^"]*)" should receive message "([^"]*)"$`, shouldReceiveMessage)
	ctx.Step(`^the unread count of "([^"]*)" for "([^"]*)" should be (\d+)$`, unreadCountShouldBe)
	ctx.Step(`^"([^"]*)" has (\d+) unread message on "([^"]*)"$`, hasUnreadMessagesOn)
	ctx.Step(`^"([^"]*)" reads the messages of "([^"]*)"$`, readsTheMessagesOf)
	ctx.Step(`^"([^"]*)" should receive a read receipt from "([^"]*)"$`, shouldReceiveAReadReceiptFrom)
	ctx.Step(`^"([^"]*)" tries to join shipment "([^"]*)"$`, triesToJoinShipment)
	ctx.Step(`^the join should fail with code "([^"]*)"$`, theJoinShouldFailWithCode)
}
