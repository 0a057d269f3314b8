package intent

// Default phrase tables. Injected via Config in production so deployments can
// localize or extend them without a rebuild.

var defaultGratitudePhrases = []string{
	"Thanks",
	"thank you",
	"thank",
	"great thanks",
	"thank you very much",
	"Thanks a lot",
	"Thanks so much",
	"Thank you so much",
	"Many thanks",
	"Thanks tons",
	"Thanks a tons",
	"Much obliged",
	"Cheers",
	"Ta",
	"Thanks a million",
	"Thanks kindly",
	"Appreciate it",
	"Greatly appreciated",
	"Thank you kindly",
	"Big thanks",
	"Grateful",
	"Thankful",
}

// TODO: drop the single-word "dog"/"cat" triggers before production.
var defaultTransactionPhrases = []string{
	"Show me my transactions",
	"I want to see my transactions",
	"Can I view my transactions?",
	"List my transactions",
	"Display my transactions",
	"What are my recent transactions?",
	"Show my account activity",
	"Let me see my transaction history",
	"View my transaction history",
	"Check my transactions",
	"Can you show my transaction list?",
	"I’d like to see my recent purchases",
	"Show me what I’ve spent recently",
	"Can I check my recent payments?",
	"Where can I see my transactions?",
	"Open my transaction history",
	"Can I view my account activity?",
	"What transactions have I made recently?",
	"List my recent account activity",
	"Display my purchase history",
	"Can you pull up my transactions?",
	"How can I see my transactions?",
	"I want to check my account history",
	"Where’s my transaction list?",
	"Show me my spending history",
	"Can I get a list of my payments?",
	"View my banking transactions",
	"Show me what I’ve paid for recently",
	"Let me see my spending activity",
	"status of a transaction",
	"status of transaction",
	"transaction status",
	"dog",
}

var defaultTransferInquiryPhrases = []string{
	"transfer rate",
	"What is the current transfer rate?",
	"Show me the transfer fees",
	"How much does it cost to send money?",
	"What are the fees for transferring money?",
	"Tell me the exchange rate",
	"What is the conversion rate right now?",
	"How much will it cost to send money internationally?",
	"Can you show me the transfer rates?",
	"What are the charges for sending money abroad?",
	"I want to know the fees for transferring money",
	"When is the best time to send money?",
	"Is now a good time to send money?",
	"Check the best time to transfer funds",
	"What are the current rates for international transfers?",
	"How much does it cost to send money overseas?",
	"What is the rate for sending USD to EUR?",
	"Tell me the transfer fees for sending money",
	"Can I see the international transfer rates?",
	"How can I find out the cost of a transfer?",
	"What’s the fee for sending money to another country?",
	"What is the best time to send money abroad?",
	"Show me the cheapest time to transfer money",
	"What are the fees for an international wire transfer?",
	"What’s the rate for sending money right now?",
	"Can you give me the cost of sending money to another country?",
	"How much does a wire transfer cost?",
	"What’s the transfer fee for today?",
	"when the best time to send a payment to the Philippines",
	"cat",
}
