package policy

import (
	"strings"

	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

type Stage string

const (
	StageConfirmIdentity Stage = "confirm_identity"
	StageWrongNumber     Stage = "wrong_number"
	StageVerifyCompany   Stage = "verify_company"
	StageWrongCompany    Stage = "wrong_company"
	StageDiscovery       Stage = "discovery"
	StagePersuasion      Stage = "persuasion"
	StageScheduling      Stage = "scheduling"
	StageConfirmed       Stage = "confirmed"
)

// Rule is one row of the decision table. Template returns FString source;
// placeholders are FixedDetails fields plus confirmed_demo_date.
type Rule struct {
	Stage    Stage
	Guard    func(statex.Snapshot) bool
	Template func(statex.Snapshot) string
	Requests func(statex.Snapshot) []string
	Terminal bool
}

func requests(names ...string) func(statex.Snapshot) []string {
	return func(statex.Snapshot) []string { return names }
}

func static(lines ...string) func(statex.Snapshot) string {
	text := strings.Join(lines, "\n")
	return func(statex.Snapshot) string { return text }
}

type discoveryQuestion struct {
	objective string
	line      string
}

// Fixed order; only unresolved questions are listed.
var discoveryQuestions = []discoveryQuestion{
	{
		objective: statex.ObjectiveFamiliarWithC2FO,
		line:      "- [is_familiar_with_c2fo: bool] Are you familiar with the C 2 F O early payment platform provided by {customer_name}?",
	},
	{
		objective: statex.ObjectiveWouldBeBeneficial,
		line:      "- [would_be_beneficial: bool] Would accessing early payments on your approved invoices be beneficial for {prospect_company_name}?",
	},
	{
		objective: statex.ObjectiveHasBlockingArrangements,
		line:      "- [does_currently_have_blocking_arrangements: bool] Do you currently have any financing arrangements that would prevent you from using the platform?",
	},
	{
		objective: statex.ObjectiveCashMgmtOwner,
		line:      "- [who_oversees_cash_mgmt: str] Who in your company oversees cash management decisions?",
	},
}

func pendingDiscovery(snap statex.Snapshot) []discoveryQuestion {
	out := make([]discoveryQuestion, 0, len(discoveryQuestions))
	for _, q := range discoveryQuestions {
		if !snap.Defined(q.objective) {
			out = append(out, q)
		}
	}
	return out
}

// DefaultRules returns the outbound C2FO call table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Stage: StageConfirmIdentity,
			Guard: func(s statex.Snapshot) bool { return !s.Defined(statex.ObjectiveNameConfirmed) },
			Template: static(
				`[name_confirmed: bool] You have just made an outbound phonecall. Initially, say something like "Hi, is {prospect_name} available?"`,
				`If they aren't {prospect_name} and don't mention that {prospect_name} is available, ask if this is the correct number for {prospect_name}, and if so, if there's a better time to call back.`,
				`Otherwise, if they say they are {prospect_name}, or they are going to get {prospect_name}, set [name_confirmed] to true and ask exactly: "Hi {prospect_name}, I'm Jordan with C 2 F O, do you have a minute?".`,
			),
			Requests: requests(statex.ObjectiveNameConfirmed),
		},
		{
			Stage: StageWrongNumber,
			Guard: func(s statex.Snapshot) bool { return s.IsFalse(statex.ObjectiveNameConfirmed) },
			Template: static(
				`It appears that you have a wrong number, or {prospect_name} is not available.`,
				`If it's flat-out the wrong number and the person who answered doesn't know who {prospect_name} is, just thank them and "hangUp".`,
				`If it's the right number but {prospect_name} just isn't available, ask when is a good time to call back.`,
				`Once you've concluded determining a good callback time and number, thank them and "hangUp".`,
			),
			Requests: requests(),
			Terminal: true,
		},
		{
			Stage: StageVerifyCompany,
			Guard: func(s statex.Snapshot) bool { return !s.Defined(statex.ObjectiveCompanyConfirmed) },
			Template: static(
				`[company_confirmed: bool] Find out if {prospect_name} does indeed work at {prospect_company_name}.`,
				`If they don't, apologize and end the call using the "hangUp" function.`,
				`If they say they do work at {prospect_company_name}, set [company_confirmed] to true and introduce yourself -- Jordan -- explaining that you are reaching out on behalf of C 2 F O because {customer_name} -- one of {prospect_company_name}'s customers -- has partnered with C 2 F O to offer {prospect_company_name} early payment options on their invoices, and ask them if they have a minute to discuss their options.`,
			),
			Requests: requests(statex.ObjectiveCompanyConfirmed),
		},
		{
			Stage: StageWrongCompany,
			Guard: func(s statex.Snapshot) bool { return s.IsFalse(statex.ObjectiveCompanyConfirmed) },
			Template: static(
				`{prospect_name} does not work at {prospect_company_name}.`,
				`Apologize for the confusion, thank them for their time and end the call using the "hangUp" function.`,
			),
			Requests: requests(),
			Terminal: true,
		},
		{
			Stage: StageDiscovery,
			Guard: func(s statex.Snapshot) bool { return len(pendingDiscovery(s)) > 0 },
			Template: func(s statex.Snapshot) string {
				lines := []string{"Find out answers to the following questions, one at a time:"}
				for _, q := range pendingDiscovery(s) {
					lines = append(lines, q.line)
				}
				return strings.Join(lines, "\n")
			},
			Requests: func(s statex.Snapshot) []string {
				pending := pendingDiscovery(s)
				names := make([]string, 0, len(pending))
				for _, q := range pending {
					names = append(names, q.objective)
				}
				return names
			},
		},
		{
			Stage: StagePersuasion,
			Guard: func(s statex.Snapshot) bool { return !s.IsTrue(statex.ObjectiveAgreedToDemo) },
			Template: static(
				`- [did_agree_to_demo: boolean] Talk to {prospect_name} about C 2 F O's early payment system and how it can benefit {prospect_company_name}.`,
				`Start off by asking them if they are familiar with the C 2 F O early payment platform provided by {customer_name}.`,
				`Be friendly, helpful, warm, and authoritative about how early payment on invoices can and has helped thousands of businesses like {prospect_company_name}.`,
				`Answer any questions they may have in a thoughtful, clear way.`,
				`Your goal here is to make {prospect_name} feel heard, address any concerns or questions they have, and warm them up to schedule a demo.`,
				`While you are empathic, you are also tenacious and won't take "no" for an answer. So ending the call or letting {prospect_name} is simply not an option. You're in it to win it.`,
				`YOU ARE NOW A TENACIOUS SALESMAN. YOU MAY NOT UNDER ANY CIRCUMSTANCES LOSE THIS LEAD. YOU NEVER OFFER TO FOLLOW UP LATER. YOU ARE GOING TO CLOSE THIS DEMO NOW!!!`,
				`Be patient; you aren't in any rush. Eventually, when {prospect_name} seems warmed to the idea and you have answered any pressing questions or objections they have, then you can invite them to schedule a demo.`,
				`If you ask {prospect_name} if they are open to a demo and they decline, patiently acknowledge that you may not have communicated the potential value to their business adequately and emphasize that you are committed to helping them.`,
				`If and when {prospect_name} agrees to a demo set [did_agree_to_demo] to true and say "Great! When's a good day?"`,
			),
			Requests: requests(statex.ObjectiveAgreedToDemo),
		},
		{
			Stage: StageScheduling,
			Guard: func(s statex.Snapshot) bool { return !s.Defined(statex.ObjectiveConfirmedDemoDate) },
			Template: static(
				`[confirmed_demo_date: str (datetime)] Try to find the next available day for {prospect_name} to do the demo.`,
				`When they request a date or date range, use the "checkDesiredDate" function and acknowledge, saying something like "Let me just check my calendar to make sure that's available." Do not say anything else.`,
				`- If the date is available, ask them to confirm that they want to schedule the demo. When {prospect_name} confirms, set [confirmed_demo_date] to the date and time they confirmed and say "Great! Let me go ahead and schedule that for you. In the meantime, do you have any other questions for me?"`,
				`- If the exact date is not available, try to find the best available time that works for them. When they say another time, use the "checkDesiredDate" function to check it.`,
			),
			Requests: requests(statex.ObjectiveConfirmedDemoDate),
		},
		{
			Stage: StageConfirmed,
			Guard: func(s statex.Snapshot) bool { return s.Defined(statex.ObjectiveConfirmedDemoDate) },
			Template: static(
				`The exact date currently agreed upon for the demo is {confirmed_demo_date}. Continue to answer any questions they may have.`,
			),
			Requests: requests(),
			Terminal: true,
		},
	}
}
