// Package messages supplies the localized customer messages recorded on each
// order timeline entry.
package messages

import (
	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

var _ domain.MessageProvider = (*Provider)(nil)

var defaultMessages = map[domain.Status]i18n.LocalizedMessage{
	domain.StatusPending: {
		i18n.English: "We have received your order and will confirm it shortly.",
		i18n.Bengali: "আমরা আপনার অর্ডার পেয়েছি এবং শীঘ্রই নিশ্চিত করব।",
	},
	domain.StatusConfirmed: {
		i18n.English: "Your order has been confirmed.",
		i18n.Bengali: "আপনার অর্ডার নিশ্চিত করা হয়েছে।",
	},
	domain.StatusProcessing: {
		i18n.English: "Your order is being prepared.",
		i18n.Bengali: "আপনার অর্ডার প্রস্তুত করা হচ্ছে।",
	},
	domain.StatusReady: {
		i18n.English: "Your order is packed and ready for dispatch.",
		i18n.Bengali: "আপনার অর্ডার প্যাক করা হয়েছে এবং পাঠানোর জন্য প্রস্তুত।",
	},
	domain.StatusShipped: {
		i18n.English: "Your order is on its way.",
		i18n.Bengali: "আপনার অর্ডার পাঠানো হয়েছে।",
	},
	domain.StatusDelivered: {
		i18n.English: "Your order has been delivered. Thank you for shopping with us.",
		i18n.Bengali: "আপনার অর্ডার পৌঁছে দেওয়া হয়েছে। আমাদের সাথে কেনাকাটার জন্য ধন্যবাদ।",
	},
	domain.StatusCancelled: {
		i18n.English: "Your order has been cancelled.",
		i18n.Bengali: "আপনার অর্ডার বাতিল করা হয়েছে।",
	},
}

// Provider returns a fixed English/Bengali message pair per status.
type Provider struct {
	messages map[domain.Status]i18n.LocalizedMessage
}

type Option func(*Provider)

// WithMessage replaces the message pair for a single status.
func WithMessage(status domain.Status, message i18n.LocalizedMessage) Option {
	return func(p *Provider) {
		p.messages[status] = message.Clone()
	}
}

// NewProvider returns the built-in message set with any overrides applied.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{messages: make(map[domain.Status]i18n.LocalizedMessage, len(defaultMessages))}
	for status, message := range defaultMessages {
		p.messages[status] = message.Clone()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// StatusMessage returns a copy of the pair for status, or an empty message
// for statuses without one.
func (p *Provider) StatusMessage(status domain.Status) i18n.LocalizedMessage {
	message, ok := p.messages[status]
	if !ok {
		return i18n.LocalizedMessage{}
	}
	return message.Clone()
}
