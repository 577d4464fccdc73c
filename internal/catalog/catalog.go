// Package catalog holds the static per-service capability table sent in
// every registration request. The table is versioned configuration data
// tied to the directory's protocol, never derived at runtime; protocol
// logic lives in internal/core/services.
package catalog

// Client-data keys whose values are supplied per call rather than from
// the static table.
const (
	IdentityKeyField        = "public-message-identity-key"
	IdentityVersionField    = "public-message-identity-version"
	NGMPrekeyDataField      = "public-message-ngm-device-prekey-data-key"
	DeviceKeySignatureField = "device-key-signature"
)

// Capability is one capability flag entry on a service descriptor.
type Capability struct {
	Flags   int
	Name    string
	Version int
}

// ServiceDescriptor describes one named capability domain the identity is
// registered against. Each descriptor yields its own certificate in the
// registration result.
type ServiceDescriptor struct {
	// Service is the canonical service name.
	Service string

	Capabilities []Capability
	SubServices  []string

	// ClientData holds the static client-data flags sent verbatim for
	// this service.
	ClientData map[string]any

	// WantsIdentityKey marks services whose client-data embeds the
	// encoded public message identity container, under
	// IdentityKeyField, together with IdentityVersion.
	WantsIdentityKey bool
	IdentityVersion  int

	// WantsNGMData marks services that additionally carry externally
	// supplied NGM prekey data, device key signature, and KT loggable
	// data as opaque pass-through blobs.
	WantsNGMData bool
}

// services is the fixed descriptor table. Order matters: the directory
// answers with one response service per entry, in this order.
var services = []ServiceDescriptor{
	{
		Service:      "com.apple.madrid",
		Capabilities: []Capability{{Flags: 1, Name: "Messenger", Version: 1}},
		SubServices: []string{
			"com.apple.private.alloy.sms",
			"com.apple.private.alloy.gelato",
			"com.apple.private.alloy.biz",
			"com.apple.private.alloy.gamecenter.imessage",
		},
		ClientData: map[string]any{
			"is-c2k-equipment":                     true,
			"optionally-receive-typing-indicators": true,
			"show-peer-errors":                     true,
			"supports-ack-v1":                      true,
			"supports-activity-sharing-v1":         true,
			"supports-audio-messaging-v2":          true,
			"supports-autoloopvideo-v1":            true,
			"supports-be-v1":                       true,
			"supports-ca-v1":                       true,
			"supports-fsm-v1":                      true,
			"supports-fsm-v2":                      true,
			"supports-fsm-v3":                      true,
			"supports-ii-v1":                       true,
			"supports-impact-v1":                   true,
			"supports-inline-attachments":          true,
			"supports-keep-receipts":               true,
			"supports-location-sharing":            true,
			"supports-media-v2":                    true,
			"supports-photos-extension-v1":         true,
			"supports-st-v1":                       true,
			"supports-update-attachments-v1":       true,
		},
		WantsIdentityKey: true,
		IdentityVersion:  2,
	},
	{
		Service:      "com.apple.private.alloy.facetime.multi",
		Capabilities: []Capability{{Flags: 1, Name: "Invitation", Version: 1}},
		SubServices:  []string{},
		ClientData: map[string]any{
			"public-message-identity-ngm-version": 12,
			"supports-avless":                     true,
			"supports-co":                         true,
			"supports-gft-calls":                  true,
			"supports-gft-errors":                 true,
			"supports-modern-gft":                 true,
			"supports-self-one-to-one-invites":    true,
		},
		WantsIdentityKey: true,
		IdentityVersion:  2,
		WantsNGMData:     true,
	},
	{
		Service:      "com.apple.ess",
		Capabilities: []Capability{{Flags: 1, Name: "Invitation", Version: 21}},
		SubServices: []string{
			"com.apple.private.alloy.facetime.video",
			"com.apple.private.alloy.facetime.sync",
			"com.apple.private.alloy.facetime.lp",
			"com.apple.private.alloy.facetime.mw",
		},
		ClientData: map[string]any{
			"supports-avless":                  true,
			"supports-co":                      true,
			"supports-gft-calls":               true,
			"supports-gft-errors":              true,
			"supports-modern-gft":              true,
			"supports-self-one-to-one-invites": true,
		},
		WantsIdentityKey: true,
		IdentityVersion:  2,
	},
	{
		Service:      "com.apple.private.alloy.multiplex1",
		Capabilities: []Capability{{Flags: 1, Name: "com.apple.private.alloy", Version: 1}},
		SubServices: []string{
			"com.apple.private.alloy.continuity.encryption",
			"com.apple.private.alloy.willow.stream",
			"com.apple.private.alloy.status.keysharing",
			"com.apple.private.alloy.ids.cloudmessaging",
			"com.apple.private.alloy.avconference.icloud",
			"com.apple.private.alloy.keytransparency.accountkey.pinning",
			"com.apple.private.alloy.gamecenter",
			"com.apple.private.alloy.thumper.keys",
			"com.apple.private.alloy.electrictouch",
			"com.apple.private.alloy.alarms-timers",
			"com.apple.private.alloy.continuity.activity",
			"com.apple.private.alloy.home.invite",
			"com.apple.private.alloy.safeview",
			"com.apple.private.alloy.screensharing.qr",
			"com.apple.private.alloy.phone.auth",
			"com.apple.private.alloy.home",
			"com.apple.private.alloy.groupkit.invite",
			"com.apple.private.alloy.fmf",
			"com.apple.private.alloy.continuity.tethering",
			"com.apple.private.alloy.status.personal",
			"com.apple.private.alloy.amp.potluck",
			"com.apple.private.alloy.screentime",
			"com.apple.private.alloy.copresence",
			"com.apple.private.alloy.screentime.invite",
			"com.apple.private.alloy.tips",
			"com.apple.private.alloy.siri.icloud",
			"com.apple.private.alloy.maps.eta",
			"com.apple.private.alloy.phonecontinuity",
			"com.apple.private.alloy.sleep.icloud",
			"com.apple.private.alloy.usagetracking",
			"com.apple.private.alloy.icloudpairing",
			"com.apple.private.alloy.clockface.sharing",
			"com.apple.private.alloy.carmelsync",
			"com.apple.private.alloy.messagenotification",
			"com.apple.private.alloy.digitalhealth",
			"com.apple.private.alloy.ded",
			"com.apple.private.alloy.screensharing",
			"com.apple.private.alloy.contextsync",
			"com.apple.private.alloy.accessibility.switchcontrol",
			"com.apple.private.alloy.familycontrols",
			"com.apple.private.alloy.fmd",
			"com.apple.private.alloy.willow",
			"com.apple.private.alloy.coreduet.sync",
			"com.apple.private.alloy.nearby",
			"com.apple.private.alloy.safari.groupactivities",
			"com.apple.private.alloy.groupkit",
			"com.apple.private.alloy.accounts.representative",
			"com.apple.private.alloy.notes",
			"com.apple.private.alloy.classroom",
			"com.apple.private.alloy.applepay",
			"com.apple.private.alloy.proxiedcrashcopier.icloud",
			"com.apple.private.alloy.continuity.unlock",
			"com.apple.private.alloy.nearby.family",
		},
		ClientData: map[string]any{
			"supports-beacon-sharing-v2":           true,
			"supports-beneficiary-invites":         true,
			"supports-cross-platform-sharing":      true,
			"supports-fmd-v2":                      true,
			"supports-incoming-fmd-v1":             true,
			"supports-maps-routing-path-leg":       true,
			"supports-maps-waypoint-route-sharing": true,
			"supports-screen-time-v2":              true,
			"supports-secure-loc-v1":               true,
		},
		WantsIdentityKey: true,
		IdentityVersion:  2,
	},
}

// Services returns the descriptor table. Callers must treat the returned
// slice and everything it references as read-only; request builders copy
// the client-data maps before adding per-call values.
func Services() []ServiceDescriptor {
	return services
}

// Names returns the canonical service names in catalog order.
func Names() []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Service
	}
	return names
}
