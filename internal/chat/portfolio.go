package chat

// portfolioContext is the knowledge document the assistant is allowed to
// answer from. Keep it in sync with the site content.
const portfolioContext = `
Siddh Mandirwala | Software Engineer
MS CS student at NYU. Builds full-stack web apps, healthcare platforms, and AI systems.

EDUCATION:
- MS Computer Science, NYU (Sep 2024–May 2026), GPA: 3.815/4.0. Coursework: Algorithms, AI, ML, Software Engineering, Info Security, Visualization, Data Science, Big Data.
- BE Computer Engineering, Gujarat Technological University (Sep 2020–Jun 2024), GPA: 9.20/10.0 (3.68/4.0). Coursework: OOP, Theory of Computation, Networks, Web Dev, Cloud Computing.

WORK:
- Software Engineer Intern, AI4Purpose (Feb 2025–Present): Migrated WordPress to Next.js/TailwindCSS, 60% faster load times. Built mobile-first components with Next.js App Router. Agile/Git workflow. Tech: Next.js, TailwindCSS, React.
- SDE Intern, KeyToZ (Jan–Jul 2024): Healthcare platform with Vue.js, React, Node.js/Strapi, PostgreSQL, GraphQL. Fixed 12+ production issues, 40% better mobile responsiveness, 25% faster API responses.
- Full Stack Intern, Bharat Tech Labs (Jul–Aug 2023): Built Postminder scheduling platform. Redis job queue handling 500+ posts/day at 99.5% uptime. Reduced production incidents by 30%. Tech: Vue.js, Node.js, Redis, PostgreSQL.

PROJECTS:
- Portafina (Jan 2026): Modern responsive portfolio website with an AI-powered personal assistant, secure lead capture, and real-time streaming responses. GitHub link: github.com/sidmandirwala/Portafina.
- Vizpromax (Sep–Dec 2025): Interactive data visualization platform analyzing spatio-temporal crime patterns in NYC over the past decade. Live: vizpromax.vercel.app. GitHub link: github.com/sidmandirwala/Vizpromax. Tech: D3, Interactive Dashboards, Urban Analytics.
- MTAnalytics (Nov–Dec 2025): Big data analytics and ML project on NYC MTA subway operations using 100GB+ of ridership and service data. Station-level ridership forecasting with Apache Spark, XGBoost, and SHAP. GitHub link: github.com/sidmandirwala/MTAnalytics.
- ReadmitIQ (May 2025): ML system predicting 30-day hospital readmission risk using MIMIC-III and UCI Diabetes datasets. GitHub link: github.com/sidmandirwala/ReadmitIQ. Tech: Python, scikit-learn, XGBoost, Healthcare ML.
- RAGStack (Nov–Dec 2024): End-to-end RAG system answering domain-specific questions from GitHub, Medium, and LinkedIn data. Qdrant vector retrieval and fine-tuned GPT-2. GitHub link: github.com/sidmandirwala/RAGStack.
- BayesWealth (Nov 2024): Bayesian causal modeling of age, financial literacy, and saving behavior in PyMC. GitHub link: github.com/sidmandirwala/BayesWealth.
- PostMinder (Jul–Aug 2023): Full-stack Instagram post scheduling platform with BullMQ/Redis task orchestration, PostgreSQL persistence, Docker deployment. GitHub link: github.com/sidmandirwala/PostMinder.

SKILLS:
Languages: Python, JavaScript, TypeScript, Java, C/C++
Frontend: Next.js, React.js, Vue.js, TailwindCSS, Vuetify, HTML5, CSS3
Backend: Go, Node.js, Express.js, Django, Strapi CMS, REST APIs, GraphQL, Supabase
Databases: PostgreSQL, MongoDB, MySQL, Redis, SQLite
DevOps/Cloud: Git, GitHub, Docker, Kubernetes, Vercel, AWS, Firebase, CI/CD
AI/ML: NLP, RAG, Bayesian Inference, scikit-learn, PyTorch, Qdrant

CERTIFICATIONS: Python & Data Analytics (Google Dev Group), JavaScript & React.js (Google Dev Group), Sustainability Educator (Surat Municipal Corp)

HOBBIES: Cricket, Automotive engineering & design, Electronics & gadgets

LANGUAGES SPOKEN: English, Hindi, Gujarati (all proficient)

STATUS: Seeking SWE/SDE roles starting May 2026. Open to full-stack, AI/ML, data science. Interested in startups and innovative tech companies.

CONTACT: Email: sidmandirwala9@gmail.com | LinkedIn: linkedin.com/in/siddh-mandirwala | GitHub: github.com/sidmandirwala
`
