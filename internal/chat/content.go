package chat

// Category groups intents for quick replies and metrics.
type Category string

const (
	CategoryStats     Category = "stats"
	CategoryThreat    Category = "threat"
	CategorySecurity  Category = "security"
	CategoryEducation Category = "education"
	CategoryGeneral   Category = "general"
)

// Intent is a pattern-matched conversation topic.
type Intent struct {
	Name         string
	Patterns     []string
	Responses    []*Template
	RequiresData bool
	Category     Category
}

// intents is scanned in order; the first substring match wins.
var intents = []Intent{
	{
		Name:     "stats",
		Patterns: []string{"how many", "total transactions", "transaction count", "stats today", "today's stats", "todays stats", "show stats"},
		Responses: []*Template{
			MustParse("📊 Today's Security Statistics:\n\n🔍 Transactions Monitored: {totalTransactions}\n🛡️ Threats Blocked: {maliciousBlocked}\n📈 Average Risk Score: {averageRiskScore}%\n⚡ System Efficiency: 99.2%\n\n{maliciousBlocked} potential attacks prevented today! Our AI is working hard to keep the blockchain safe. 🚀\n\nWant to see the latest threat patterns?"),
			MustParse("📈 Real-Time Security Dashboard:\n\n✅ Safe Transactions: {safeTransactions}\n❌ Blocked Threats: {maliciousBlocked}\n⚠️ Risk Level: {riskLevel}\n🎯 Detection Accuracy: 94.2%\n\nYour security system is performing excellently! The AI has successfully identified and blocked {maliciousBlocked} suspicious transactions today. 🛡️"),
		},
		RequiresData: true,
		Category:     CategoryStats,
	},
	{
		Name:     "threat_intel",
		Patterns: []string{"latest", "recent", "high risk wallet", "dangerous wallet", "latest threats", "recent threats", "explain threats"},
		Responses: []*Template{
			MustParse("🚨 Latest Threat Intelligence:\n\n⚠️ Active Alerts: {activeAlerts}\n🎯 Top Threats Detected:\n\n• 💥 Flash Loan Attacks - 23% of threats\n• 🎭 Rug Pull Attempts - 18% of threats\n• 🥪 Sandwich Attacks - 15% of threats\n• ⛽ Gas Manipulation - 12% of threats\n\nLatest High-Risk Wallet: Shows patterns of automated bot behavior with unusual gas usage. Want me to explain what this means? 🤖"),
			MustParse("🛡️ Threat Landscape Update:\n\n📊 Risk Distribution:\n• 🟢 Low Risk: 78% of transactions\n• 🟡 Medium Risk: 15% of transactions\n• 🔴 High Risk: 7% of transactions\n\nEmerging Patterns:\n• Increased MEV bot activity during high volatility\n• New phishing token contracts detected\n• Cross-chain bridge exploitation attempts\n\nStay vigilant! 👀"),
		},
		RequiresData: true,
		Category:     CategoryThreat,
	},
	{
		Name:     "why_flagged",
		Patterns: []string{"why flagged", "why blocked", "transaction flagged", "wallet flagged"},
		Responses: []*Template{
			MustParse("🛡️ Why Wallets Get Flagged:\n\nOur AI detects suspicious patterns like:\n\n• Flash loan attacks - Borrowing large amounts to manipulate prices\n• Rug pulls - Draining liquidity from tokens\n• Sandwich attacks - Front/back-running transactions\n• High-frequency patterns - Automated bot behavior\n• Gas anomalies - Unusual gas usage suggesting exploits\n\nEach transaction gets a risk score 0-100%. Anything above 70% gets flagged! 📊"),
		},
		Category: CategorySecurity,
	},
	{
		Name:     "suspicious_tokens",
		Patterns: []string{"what to do", "received tokens", "got tokens", "suspicious tokens"},
		Responses: []*Template{
			MustParse("⚠️ If you received tokens from a flagged wallet:\n\n🚫 DO NOT:\n• Interact with the tokens\n• Approve any contracts\n• Try to sell immediately\n\n✅ DO:\n• Check token legitimacy on verification sites\n• Wait for community feedback\n• Consider the tokens potentially worthless\n• Report if you believe it's a scam\n\nStay safe out there! 🛡️"),
		},
		Category: CategorySecurity,
	},
	{
		Name:     "defi_basics",
		Patterns: []string{"rug pull", "what is rug pull", "learn defi", "learndefi", "teach me", "defi basics"},
		Responses: []*Template{
			MustParse("📚 DeFi Security Fundamentals:\n\n🎭 Rug Pulls: Token creators drain liquidity suddenly\n⚡ Flash Loans: Borrow massive amounts without collateral\n🥪 Sandwich Attacks: Profit from your transaction slippage\n🤖 MEV Bots: Extract value from transaction ordering\n\nKey Safety Rules:\n• ✅ Verify token contracts\n• ✅ Check liquidity locks\n• ✅ Research team credentials\n• ✅ Use trusted platforms\n\nWant to dive deeper into any specific threat? 🔍"),
			MustParse("🧠 DeFi Learning Path:\n\nBeginner Level:\n• What is DeFi and how it works\n• Understanding smart contracts\n• Wallet security basics\n\nIntermediate Level:\n• Liquidity pools and AMMs\n• Yield farming strategies\n• Risk assessment techniques\n\nAdvanced Level:\n• MEV and arbitrage\n• Cross-chain protocols\n• Advanced security analysis\n\nWhich level interests you most? 🎯"),
		},
		Category: CategoryEducation,
	},
	{
		Name:     "flash_loan",
		Patterns: []string{"flash loan", "what is flash loan"},
		Responses: []*Template{
			MustParse("⚡ Flash Loans Explained:\n\nBorrow massive amounts without collateral, but must repay in same transaction!\n\nLegitimate uses: 📚\n• Arbitrage opportunities\n• Debt refinancing\n• Liquidations\n\nMalicious uses: 💀\n• Price manipulation\n• Oracle attacks\n• Protocol exploitation\n\nOur AI detects when flash loans are used maliciously! 🤖"),
		},
		Category: CategoryEducation,
	},
	{
		Name:     "sandwich_attack",
		Patterns: []string{"sandwich attack", "mev", "front running"},
		Responses: []*Template{
			MustParse("🥪 Sandwich Attacks:\n\nAttackers \"sandwich\" your transaction between theirs to profit from slippage!\n\nHow it works:\n1. Bot sees your pending transaction 👀\n2. Places buy order with higher gas (front-runs) ⬆️\n3. Your transaction executes at worse price 📉\n4. Bot sells for profit (back-runs) ⬇️\n\nProtection: Use private mempools or MEV protection! 🛡️"),
		},
		Category: CategoryEducation,
	},
	{
		Name:     "ai_detection",
		Patterns: []string{"how it works", "ai detection", "machine learning"},
		Responses: []*Template{
			MustParse("🧠 Our AI Detection System:\n\nMulti-Model Approach:\n• Supervised Learning - Trained on known attack patterns\n• Anomaly Detection - Catches novel threats\n• LSTM Networks - Analyzes transaction sequences\n• Ensemble Model - Combines all predictions\n\nFeatures analyzed: 📊\n• Transaction patterns\n• Gas usage anomalies\n• Network behavior\n• Historical reputation\n\nSpeed: < 50ms analysis time! ⚡"),
		},
		Category: CategorySecurity,
	},
	{
		Name:     "false_positive",
		Patterns: []string{"false positive", "mistake", "wrong"},
		Responses: []*Template{
			MustParse("🔍 False Positive Handling:\n\nIf you believe a wallet was incorrectly flagged:\n\n✅ Steps to take:\n• Review the specific patterns detected\n• Provide evidence of legitimate use\n• Submit whitelist request via admin panel\n• Our team will manually review\n\n📈 Continuous Learning:\nOur AI learns from feedback to reduce false positives over time!\n\nWant me to help you submit a review request? 🤝"),
		},
		Category: CategorySecurity,
	},
}

var categoryQuickReplies = map[Category][]string{
	CategoryStats:     {"Show recent alerts", "Latest threats", "Security tip"},
	CategoryEducation: {"Learn more threats", "Security tips", "Did you know?"},
	CategoryThreat:    {"How to protect?", "More details", "Security tip"},
}

type gamification struct {
	Header    string
	Items     []string
	Options   []string
	FollowUps map[string]string
}

// securityTips answers any message mentioning "tip".
var securityTips = gamification{
	Header: "💡 Security Tip of the Day:",
	Items: []string{
		"🔐 Never share your private keys! Not even with 'support' teams. Legitimate services never ask for private keys.",
		"🎭 Rug Pull Red Flags: Anonymous teams, no locked liquidity, unrealistic APY promises (>1000%), and rapid price pumps.",
		"⚡ Flash Loan Safety: These attacks happen in milliseconds. Always use protocols with flash loan protection mechanisms.",
		"🥪 Avoid Sandwich Attacks: Use private mempools or set low slippage tolerance on DEX trades.",
		"🔍 Contract Verification: Always verify token contracts on Etherscan before interacting. Look for verified source code.",
		"💰 Diversify Risk: Never put all funds in one protocol. Spread across multiple audited platforms.",
		"🚨 Phishing Protection: Bookmark official sites. Scammers create fake versions with similar URLs.",
		"⛽ Gas Price Awareness: Unusually high gas requirements might indicate malicious contract interactions.",
	},
	Options: []string{"Tell me more", "Another tip", "How to stay safe"},
	FollowUps: map[string]string{
		"Tell me more":     "🔍 Deep Dive: This tip is based on real attack patterns we've observed. Our AI has prevented thousands of similar attacks by recognizing these patterns early.",
		"Another tip":      "🎲 Random Security Fact: Did you know that 67% of DeFi exploits happen within the first 48 hours of a protocol launch? Always wait and watch! ⏰",
		"How to stay safe": "🛡️ Safety Checklist:\n\n✅ Use hardware wallets\n✅ Enable transaction confirmations\n✅ Verify all contract addresses\n✅ Keep software updated\n✅ Never rush into new protocols\n\nStay paranoid, stay safe! 🔐",
	},
}

// securityFacts answers "did you know" and "fact" messages.
var securityFacts = gamification{
	Header: "🤔 Did You Know?",
	Items: []string{
		"🧠 Our AI analyzes over 50 transaction parameters in under 50 milliseconds to detect threats!",
		"⚡ Flash loan attacks can drain millions in a single transaction, but our system catches them before execution.",
		"🎭 The average rug pull steals $2.3M, but 89% show detectable patterns before the exit scam.",
		"🥪 Sandwich attacks cost users $280M annually, but can be prevented with proper slippage settings.",
		"🤖 MEV bots extract $600M+ yearly from regular users through transaction reordering.",
		"🔍 Only 12% of malicious contracts are detected by traditional scanners vs 94% by AI systems.",
		"⛽ Gas price manipulation is used in 34% of DeFi exploits to hide malicious activity.",
	},
	Options: []string{"That's amazing!", "How does it work?", "More facts"},
	FollowUps: map[string]string{
		"That's amazing!":   "🚀 The Power of AI Security: Our ensemble model combines supervised learning, anomaly detection, and LSTM networks to achieve 94.2% accuracy in threat detection!",
		"How does it work?": "🧠 AI Magic: We analyze transaction patterns, gas usage, wallet history, contract interactions, and timing to build a comprehensive risk profile in real-time!",
		"More facts":        "📊 Bonus Fact: The blockchain processes 1.2M transactions daily, and our AI protects users from an average of 847 potential threats every 24 hours! 🛡️",
	},
}

var welcomeText = map[string]string{
	"en": "🛡️ Welcome to Andromeda Security AI!\n\nI'm your intelligent security assistant. I can help with:\n\n• 📊 Real-time security stats\n• 🚨 Threat explanations\n• 📚 DeFi security education\n• 🔍 Transaction analysis\n\nWhat would you like to know? 🤖",
	"hi": "🛡️ एंड्रोमेडा सिक्योरिटी AI में आपका स्वागत है!\n\nमैं आपका बुद्धिमान सुरक्षा सहायक हूं। मैं इसमें मदद कर सकता हूं:\n\n• 📊 रियल-टाइम सुरक्षा आंकड़े\n• 🚨 खतरों की व्याख्या\n• 📚 DeFi सुरक्षा शिक्षा\n• 🔍 लेनदेन विश्लेषण\n\nआप क्या जानना चाहेंगे? 🤖",
	"es": "🛡️ ¡Bienvenido a Andromeda Security AI!\n\nSoy tu asistente inteligente de seguridad. Puedo ayudar con:\n\n• 📊 Estadísticas de seguridad en tiempo real\n• 🚨 Explicaciones de amenazas\n• 📚 Educación de seguridad DeFi\n• 🔍 Análisis de transacciones\n\n¿Qué te gustaría saber? 🤖",
	"ta": "🛡️ ஆண்ட்ரோமெடா செக்யூரிட்டி AI-க்கு வரவேற்கிறோம்!\n\nநான் உங்கள் அறிவார்ந்த பாதுகாப்பு உதவியாளர். நான் இதில் உதவ முடியும்:\n\n• 📊 நேரடி பாதுகாப்பு புள்ளிவிவரங்கள்\n• 🚨 அச்சுறுத்தல் விளக்கங்கள்\n• 📚 DeFi பாதுகாப்பு கல்வி\n• 🔍 பரிவர்த்தனை பகுப்பாய்வு\n\nநீங்கள் என்ன தெரிந்து கொள்ள விரும்புகிறீர்கள்? 🤖",
	"gu": "🛡️ એન્ડ્રોમેડા સિક્યુરિટી AI માં આપનું સ્વાગત છે!\n\nહું તમારો બુદ્ધિશાળી સુરક્ષા સહાયક છું. હું આમાં મદદ કરી શકું છું:\n\n• 📊 રીઅલ-ટાઇમ સુરક્ષા આંકડા\n• 🚨 ધમકીઓની સમજૂતી\n• 📚 DeFi સુરક્ષા શિક્ષણ\n• 🔍 વ્યવહાર વિશ્લેષણ\n\nતમે શું જાણવા માંગો છો? 🤖",
	"fr": "🛡️ Bienvenue dans Andromeda Security AI !\n\nJe suis votre assistant intelligent de sécurité. Je peux aider avec :\n\n• 📊 Statistiques de sécurité en temps réel\n• 🚨 Explications des menaces\n• 📚 Éducation à la sécurité DeFi\n• 🔍 Analyse des transactions\n\nQue souhaitez-vous savoir ? 🤖",
}

var suggestionReplies = map[string][]string{
	"en": {"Show me today's stats", "Why was a wallet flagged?", "Teach me about threats", "Security tip! 🎯"},
	"hi": {"आज के आंकड़े दिखाएं", "वॉलेट क्यों फ्लैग किया गया?", "खतरों के बारे में सिखाएं", "सुरक्षा टिप! 🎯"},
	"es": {"Mostrar estadísticas de hoy", "¿Por qué se marcó una billetera?", "Enséñame sobre amenazas", "¡Consejo de seguridad! 🎯"},
	"ta": {"இன்றைய புள்ளிவிவரங்களைக் காட்டு", "வாலட் ஏன் கொடியிடப்பட்டது?", "அச்சுறுத்தல்களைப் பற்றி கற்றுக்கொடு", "பாதுகாப்பு குறிப்பு! 🎯"},
	"gu": {"આજના આંકડા બતાવો", "વૉલેટ કેમ ફ્લેગ થયું?", "ધમકીઓ વિશે શીખવો", "સુરક્ષા ટિપ! 🎯"},
	"fr": {"Afficher les stats d'aujourd'hui", "Pourquoi un portefeuille a-t-il été signalé ?", "Apprenez-moi les menaces", "Conseil sécurité ! 🎯"},
}

var notUnderstoodText = map[string]string{
	"en": "🤔 I'm not sure about that specific question, but I can help with:\n\n• 📊 Security Statistics - Current threat levels\n• 🚨 Threat Analysis - Why wallets get flagged\n• 📚 DeFi Education - Learn about attacks\n• 💡 Security Tips - Daily safety advice\n\nWhat interests you most?",
	"hi": "🤔 मुझे उस विशिष्ट प्रश्न के बारे में यकीन नहीं है, लेकिन मैं इसमें मदद कर सकता हूं:\n\n• 📊 सुरक्षा आंकड़े - वर्तमान खतरे का स्तर\n• 🚨 खतरा विश्लेषण - वॉलेट क्यों फ्लैग होते हैं\n• 📚 DeFi शिक्षा - हमलों के बारे में जानें\n• 💡 सुरक्षा सुझाव - दैनिक सुरक्षा सलाह\n\nआपको सबसे ज्यादा क्या दिलचस्पी है?",
	"es": "🤔 No estoy seguro sobre esa pregunta específica, pero puedo ayudar con:\n\n• 📊 Estadísticas de Seguridad - Niveles de amenaza actuales\n• 🚨 Análisis de Amenazas - Por qué se marcan las billeteras\n• 📚 Educación DeFi - Aprende sobre ataques\n• 💡 Consejos de Seguridad - Consejos diarios de seguridad\n\n¿Qué te interesa más?",
	"ta": "🤔 அந்த குறிப்பிட்ட கேள்வியைப் பற்றி எனக்குத் தெரியவில்லை, ஆனால் நான் இதில் உதவ முடியும்:\n\n• 📊 பாதுகாப்பு புள்ளிவிவரங்கள் - தற்போதைய அச்சுறுத்தல் நிலைகள்\n• 🚨 அச்சுறுத்தல் பகுப்பாய்வு - வாலட்கள் ஏன் கொடியிடப்படுகின்றன\n• 📚 DeFi கல்வி - தாக்குதல்களைப் பற்றி அறிக\n• 💡 பாதுகாப்பு குறிப்புகள் - தினசரி பாதுகாப்பு ஆலோசனை\n\nஉங்களுக்கு எது மிகவும் சுவாரஸ்யமானது?",
	"gu": "🤔 મને તે ચોક્કસ પ્રશ્ન વિશે ખાતરી નથી, પરંતુ હું આમાં મદદ કરી શકું છું:\n\n• 📊 સુરક્ષા આંકડા - વર્તમાન ધમકીનું સ્તર\n• 🚨 ધમકી વિશ્લેષણ - વૉલેટ કેમ ફ્લેગ થાય છે\n• 📚 DeFi શિક્ષણ - હુમલાઓ વિશે શીખો\n• 💡 સુરક્ષા ટિપ્સ - દૈનિક સુરક્ષા સલાહ\n\nતમને સૌથી વધુ શું રસ છે?",
	"fr": "🤔 Je ne suis pas sûr de cette question spécifique, mais je peux aider avec :\n\n• 📊 Statistiques de Sécurité - Niveaux de menace actuels\n• 🚨 Analyse des Menaces - Pourquoi les portefeuilles sont signalés\n• 📚 Éducation DeFi - Apprendre les attaques\n• 💡 Conseils de Sécurité - Conseils quotidiens de sécurité\n\nQu'est-ce qui vous intéresse le plus ?",
}

// keywordTables are applied in order to lower-cased text.
var keywordTables = map[string][]phrase{
	"hi": {
		{"show stats", "आंकड़े दिखाएं"},
		{"latest threats", "नवीनतम खतरे"},
		{"security tip", "सुरक्षा टिप"},
		{"teach me", "मुझे सिखाएं"},
		{"help", "मदद"},
		{"today", "आज"},
		{"wallet", "वॉलेट"},
		{"transaction", "लेनदेन"},
		{"risk", "जोखिम"},
		{"threat", "खतरा"},
	},
	"es": {
		{"show stats", "mostrar estadísticas"},
		{"latest threats", "últimas amenazas"},
		{"security tip", "consejo de seguridad"},
		{"teach me", "enséñame"},
		{"help", "ayuda"},
		{"today", "hoy"},
		{"wallet", "billetera"},
		{"transaction", "transacción"},
		{"risk", "riesgo"},
		{"threat", "amenaza"},
	},
	"ta": {
		{"show stats", "புள்ளிவிவரங்களைக் காட்டு"},
		{"latest threats", "சமீபத்திய அச்சுறுத்தல்கள்"},
		{"security tip", "பாதுகாப்பு குறிப்பு"},
		{"teach me", "எனக்குக் கற்றுக்கொடு"},
		{"help", "உதவி"},
		{"today", "இன்று"},
		{"wallet", "வாலட்"},
		{"transaction", "பரிவர்த்தனை"},
		{"risk", "ஆபத்து"},
		{"threat", "அச்சுறுத்தல்"},
	},
	"gu": {
		{"show stats", "આંકડા બતાવો"},
		{"latest threats", "નવીનતમ ધમકીઓ"},
		{"security tip", "સુરક્ષા ટિપ"},
		{"teach me", "મને શીખવો"},
		{"help", "મદદ"},
		{"today", "આજે"},
		{"wallet", "વૉલેટ"},
		{"transaction", "વ્યવહાર"},
		{"risk", "જોખમ"},
		{"threat", "ધમકી"},
	},
	"fr": {
		{"show stats", "afficher les statistiques"},
		{"latest threats", "dernières menaces"},
		{"security tip", "conseil de sécurité"},
		{"teach me", "apprenez-moi"},
		{"help", "aide"},
		{"today", "aujourd'hui"},
		{"wallet", "portefeuille"},
		{"transaction", "transaction"},
		{"risk", "risque"},
		{"threat", "menace"},
	},
}
