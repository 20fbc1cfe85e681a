package passages

// Stock passages, one translation of the English reference per supported
// language, keyed by ISO 639-1 code.
var stock = map[string]Passage{
	"en": {
		Text:              `The digital revolution has transformed how we live and work. In today's interconnected world, technology plays a pivotal role in shaping our daily experiences. From artificial intelligence to renewable energy, innovations continue to drive progress and create new opportunities. As we navigate these changes, it's crucial to understand both the benefits and challenges of our increasingly digital society.`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "en",
	},
	"fr": {
		Text:              `La révolution numérique a transformé notre façon de vivre et de travailler. Dans le monde interconnecté d'aujourd'hui, la technologie joue un rôle central dans nos expériences quotidiennes. De l'intelligence artificielle aux énergies renouvelables, les innovations continuent de stimuler le progrès et de créer de nouvelles opportunités. Alors que nous naviguons à travers ces changements, il est crucial de comprendre à la fois les avantages et les défis de notre société de plus en plus numérique.`,
		EstimatedDuration: 50,
		Difficulty:        "intermediate",
		Code:              "fr",
	},
	"ar": {
		Text:              `لقد غيرت الثورة الرقمية طريقة حياتنا وعملنا. في عالم اليوم المترابط، تلعب التكنولوجيا دوراً محورياً في تشكيل تجاربنا اليومية. من الذكاء الاصطناعي إلى الطاقة المتجددة، تواصل الابتكارات دفع التقدم وخلق فرص جديدة. بينما نتنقل عبر هذه التغييرات، من الضروري فهم كل من فوائد وتحديات مجتمعنا الرقمي المتزايد.`,
		EstimatedDuration: 55,
		Difficulty:        "intermediate",
		Code:              "ar",
	},
	"es": {
		Text:              `La revolución digital ha transformado nuestra forma de vivir y trabajar. En el mundo interconectado de hoy, la tecnología juega un papel fundamental en nuestras experiencias diarias. Desde la inteligencia artificial hasta las energías renovables, las innovaciones continúan impulsando el progreso y creando nuevas oportunidades. Mientras navegamos por estos cambios, es crucial entender tanto los beneficios como los desafíos de nuestra sociedad cada vez más digital.`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "es",
	},
	"de": {
		Text:              `Die digitale Revolution hat unsere Art zu leben und zu arbeiten verändert. In der vernetzten Welt von heute spielt Technologie eine zentrale Rolle in unseren täglichen Erfahrungen. Von künstlicher Intelligenz bis hin zu erneuerbaren Energien treiben Innovationen den Fortschritt voran und schaffen neue Möglichkeiten. Während wir durch diese Veränderungen navigieren, ist es entscheidend, sowohl die Vorteile als auch die Herausforderungen unserer zunehmend digitalen Gesellschaft zu verstehen.`,
		EstimatedDuration: 55,
		Difficulty:        "intermediate",
		Code:              "de",
	},
	"zh": {
		Text:              `数字革命已经改变了我们的生活和工作方式。在当今互联互通的世界中，技术在塑造我们的日常体验方面发挥着关键作用。从人工智能到可再生能源，创新不断推动进步并创造新机遇。在我们应对这些变化的过程中，理解我们日益数字化的社会的优势和挑战至关重要。`,
		EstimatedDuration: 40,
		Difficulty:        "intermediate",
		Code:              "zh",
	},
	"ja": {
		Text:              `デジタル革命は私たちの生活と仕事の仕方を変えました。今日の相互接続された世界では、テクノロジーが私たちの日常体験を形作る上で重要な役割を果たしています。人工知能から再生可能エネルギーまで、革新は進歩を推進し、新しい機会を生み出し続けています。これらの変化に対応する中で、ますますデジタル化する社会の利点と課題の両方を理解することが重要です。`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "ja",
	},
	"ko": {
		Text:              `디지털 혁명은 우리의 생활과 일하는 방식을 변화시켰습니다. 오늘날의 상호 연결된 세계에서 기술은 우리의 일상적인 경험을 형성하는 데 중추적인 역할을 합니다. 인공지능에서 재생 에너지에 이르기까지, 혁신은 계속해서 진보를 이끌고 새로운 기회를 창출합니다. 이러한 변화를 헤쳐나가면서, 점점 더 디지털화되는 우리 사회의 이점과 과제를 모두 이해하는 것이 중요합니다.`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "ko",
	},
	"it": {
		Text:              `La rivoluzione digitale ha trasformato il nostro modo di vivere e lavorare. Nel mondo interconnesso di oggi, la tecnologia svolge un ruolo fondamentale nel plasmare le nostre esperienze quotidiane. Dall'intelligenza artificiale alle energie rinnovabili, le innovazioni continuano a guidare il progresso e a creare nuove opportunità. Mentre navighiamo attraverso questi cambiamenti, è cruciale comprendere sia i benefici che le sfide della nostra società sempre più digitale.`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "it",
	},
	"pt": {
		Text:              `A revolução digital transformou nossa forma de viver e trabalhar. No mundo interconectado de hoje, a tecnologia desempenha um papel fundamental em moldar nossas experiências diárias. Da inteligência artificial às energias renováveis, as inovações continuam impulsionando o progresso e criando novas oportunidades. Enquanto navegamos por essas mudanças, é crucial entender tanto os benefícios quanto os desafios de nossa sociedade cada vez mais digital.`,
		EstimatedDuration: 45,
		Difficulty:        "intermediate",
		Code:              "pt",
	},
}
