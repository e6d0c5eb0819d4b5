package testutil

import "github.com/MeKo-Tech/polyglot/internal/language"

// EnglishParagraph is an unambiguous English text without any character that
// is unique to a single language.
const EnglishParagraph = "In computer science a container is a class or a data structure whose " +
	"instances are collections of other objects. In other words they store objects in an " +
	"organized way that follows specific access rules. The size of the container depends on " +
	"the number of objects it contains."

// Corpora holds the sample texts fixture models are built from.
var Corpora = map[language.Language]string{
	language.English: EnglishParagraph + " " +
		"Underlying implementations of various container types may vary in size and complexity, " +
		"and provide flexibility in choosing the right implementation for any given scenario. " +
		"The weather was pleasant this morning, so we walked through the park and watched the " +
		"children playing near the old bridge. Everyone agreed that the new library should " +
		"open earlier during the week, because students would like more time to read and write " +
		"before their lectures begin.",
	language.German: "In der Informatik ist ein Container eine Klasse oder eine Datenstruktur, deren " +
		"Instanzen Sammlungen anderer Objekte sind. Mit anderen Worten speichern sie Objekte auf " +
		"eine geordnete Weise, die bestimmten Zugriffsregeln folgt. Das Wetter war heute Morgen " +
		"angenehm, also gingen wir durch den Park und schauten den Kindern zu, die in der Nähe " +
		"der alten Brücke spielten. Alle waren sich einig, dass die neue Bibliothek unter der " +
		"Woche früher öffnen sollte, weil die Studenten vor ihren Vorlesungen mehr Zeit zum " +
		"Lesen und Schreiben haben möchten. Die Größe des Behälters hängt von der Anzahl der " +
		"Objekte ab, die er enthält.",
	language.French: "En informatique, un conteneur est une classe ou une structure de données dont " +
		"les instances sont des collections d'autres objets. Autrement dit, ils stockent des " +
		"objets de manière organisée en suivant des règles d'accès précises. Le temps était " +
		"agréable ce matin, alors nous avons traversé le parc et regardé les enfants jouer près " +
		"du vieux pont. Tout le monde était d'accord pour que la nouvelle bibliothèque ouvre plus " +
		"tôt pendant la semaine, parce que les étudiants voudraient avoir plus de temps pour lire " +
		"et écrire avant le début de leurs cours.",
	language.Spanish: "En informática, un contenedor es una clase o una estructura de datos cuyas " +
		"instancias son colecciones de otros objetos. En otras palabras, almacenan objetos de " +
		"forma organizada siguiendo reglas de acceso específicas. El tiempo era agradable esta " +
		"mañana, así que caminamos por el parque y miramos a los niños que jugaban cerca del " +
		"puente viejo. Todos estuvieron de acuerdo en que la nueva biblioteca debería abrir más " +
		"temprano durante la semana, porque los estudiantes quisieran tener más tiempo para leer " +
		"y escribir antes de que comiencen sus clases.",
	language.Italian: "In informatica, un contenitore è una classe o una struttura dati le cui " +
		"istanze sono raccolte di altri oggetti. In altre parole, memorizzano gli oggetti in modo " +
		"organizzato seguendo regole di accesso specifiche. Il tempo era piacevole stamattina, " +
		"così abbiamo attraversato il parco e guardato i bambini che giocavano vicino al vecchio " +
		"ponte. Tutti erano d'accordo che la nuova biblioteca dovrebbe aprire prima durante la " +
		"settimana, perché gli studenti vorrebbero avere più tempo per leggere e scrivere prima " +
		"dell'inizio delle lezioni.",
	language.Russian: "В информатике контейнер это класс или структура данных, экземпляры которой " +
		"являются коллекциями других объектов. Другими словами, они хранят объекты упорядоченным " +
		"образом, следуя определённым правилам доступа. Сегодня утром была приятная погода, " +
		"поэтому мы прошли через парк и смотрели, как дети играют возле старого моста. Все " +
		"согласились, что новая библиотека должна открываться раньше в течение недели, потому " +
		"что студенты хотели бы больше времени читать и писать перед лекциями.",
	language.Ukrainian: "В інформатиці контейнер це клас або структура даних, екземпляри якої є " +
		"колекціями інших об'єктів. Іншими словами, вони зберігають об'єкти впорядкованим " +
		"чином, дотримуючись певних правил доступу. Сьогодні вранці була приємна погода, тому " +
		"ми пройшли через парк і дивилися, як діти граються біля старого мосту. Усі погодилися, " +
		"що нова бібліотека має відкриватися раніше протягом тижня, бо студенти хотіли б мати " +
		"більше часу, щоб читати й писати перед лекціями. Їжак живе в лісі.",
}
